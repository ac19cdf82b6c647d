package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out, err := Render(Keywords, map[string]string{"JOB": "Développeur Go"})
	require.NoError(t, err)

	assert.Contains(t, out, "[Offre d'emploi]\nDéveloppeur Go")
	assert.NotContains(t, out, "{{")
}

func TestRenderDoesNotExpandValues(t *testing.T) {
	out, err := Render(Keywords, map[string]string{"JOB": "{{JOB}} twice"})
	require.NoError(t, err)

	assert.Contains(t, out, "{{JOB}} twice")
}

func TestRenderErrors(t *testing.T) {
	_, err := Render("nope", nil)
	require.Error(t, err)

	_, err = Render(Summary, map[string]string{"SKILLS": "Go"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{{EXPERIENCES}}")
}

func TestAllTemplatesExist(t *testing.T) {
	for _, name := range []string{CV, Analysis, Summary, Achievements, Keywords, ATSSummary} {
		_, err := templates.ReadFile(name + ".md")
		assert.NoError(t, err, name)
	}
}
