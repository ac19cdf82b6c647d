package ai

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxLineRunes     = 300
	maxBlockRunes    = 6000
	maxResponseRunes = 2000
	maxKeywordInput  = 1500
)

var roleMarkers = strings.NewReplacer("[", "(", "]", ")")

// sanitizeLine flattens user input into a single line: whitespace is
// collapsed, bracketed role markers are neutralised and the result is capped.
func sanitizeLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	return capRunes(roleMarkers.Replace(s), limit)
}

// sanitizeBlock keeps line structure but cleans each line like sanitizeLine.
func sanitizeBlock(s string, limit int) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = sanitizeLine(line, limit); line != "" {
			out = append(out, line)
		}
	}
	return capRunes(strings.Join(out, "\n"), limit)
}

func capRunes(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

var (
	disallowedChars = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,;:()\[\]{}'’%]`)
	forbiddenWords  = []string{"hack", "exploit", "malicious", "attack"}
)

// cleanResponse strips unexpected characters from a generated text, caps its
// length and rejects texts containing forbidden words.
func cleanResponse(s string) (string, error) {
	cleaned := strings.TrimSpace(disallowedChars.ReplaceAllString(s, ""))

	if utf8.RuneCountInString(cleaned) > maxResponseRunes {
		cleaned = string([]rune(cleaned)[:maxResponseRunes]) + "..."
	}

	lower := strings.ToLower(cleaned)
	for _, w := range forbiddenWords {
		if strings.Contains(lower, w) {
			return "", fmt.Errorf("%w: contains %q", ErrUnsafeContent, w)
		}
	}

	return cleaned, nil
}

var bulletPrefix = regexp.MustCompile(`^[\d\-•.)\s*]+`)

// parseBullets extracts numbered or bulleted items longer than ten runes.
func parseBullets(s string, limit int) []string {
	items := []string{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(line)
		if !(first >= '0' && first <= '9') && first != '-' && first != '•' && first != '*' {
			continue
		}
		item := strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		if utf8.RuneCountInString(item) <= 10 {
			continue
		}
		items = append(items, item)
		if len(items) == limit {
			break
		}
	}
	return items
}

// parseList splits a comma separated answer into trimmed, non-empty items.
func parseList(s string, limit int) []string {
	items := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.Trim(strings.TrimSpace(part), "*`\"")
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		items = append(items, part)
		if len(items) == limit {
			break
		}
	}
	return items
}
