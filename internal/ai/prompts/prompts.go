// Package prompts holds the French prompt templates sent to the text
// generator. Templates use {{NAME}} placeholders.
package prompts

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
)

const (
	CV           = "cv"
	Analysis     = "analysis"
	Summary      = "summary"
	Achievements = "achievements"
	Keywords     = "keywords"
	ATSSummary   = "ats_summary"
)

//go:embed *.md
var templates embed.FS

var placeholder = regexp.MustCompile(`\{\{[A-Z_]+\}\}`)

// Render fills the named template. Every placeholder must be provided.
func Render(name string, values map[string]string) (string, error) {
	raw, err := templates.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("prompt template %q: %w", name, err)
	}

	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	out := strings.NewReplacer(pairs...).Replace(string(raw))

	if missing := placeholder.FindAllString(string(raw), -1); len(missing) > 0 {
		for _, m := range missing {
			if _, ok := values[strings.Trim(m, "{}")]; !ok {
				return "", fmt.Errorf("prompt template %q: missing value for %s", name, m)
			}
		}
	}

	return strings.TrimSpace(out), nil
}
