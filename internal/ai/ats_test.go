package ai

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/phoenix-cv/internal/ai/demo"
	"github.com/spigell/phoenix-cv/internal/coach"
	"github.com/spigell/phoenix-cv/internal/profile"
)

// scriptedGenerator answers calls in order; an error entry fails that call.
type scriptedGenerator struct {
	mu      sync.Mutex
	answers []any
	prompts []string
}

func (s *scriptedGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	if len(s.answers) == 0 {
		return "", errors.New("unexpected call")
	}
	next := s.answers[0]
	s.answers = s.answers[1:]

	if err, ok := next.(error); ok {
		return "", err
	}
	return next.(string), nil
}

const atsJob = profile.JobDescription("Data analyst: SQL, Python, tableaux de bord, reporting, statistiques, Power BI")

func TestOptimizeForATS(t *testing.T) {
	gen := &scriptedGenerator{answers: []any{
		"SQL, Python, tableaux de bord, reporting, statistiques, Power BI",
		"Gestionnaire de paie passionnée par le reporting et SQL.",
	}}
	a := NewAssistant(gen)

	p := sampleProfile()
	before := p.ProfessionalSummary

	out := a.OptimizeForATS(context.Background(), p, atsJob)
	require.NoError(t, out.Err())

	assert.Equal(t, []string{"SQL", "Python", "tableaux de bord", "reporting", "statistiques", "Power BI"}, out.Keywords.Items)
	assert.Equal(t, "Gestionnaire de paie passionnée par le reporting et SQL.", out.Summary.Text)
	assert.Equal(t, out.Summary.Text, out.Profile.ProfessionalSummary)
	assert.Equal(t, before, p.ProfessionalSummary)

	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[1], "SQL, Python, tableaux de bord, reporting, statistiques")
	assert.NotContains(t, gen.prompts[1], "Power BI")
	assert.Contains(t, gen.prompts[1], before)

	assert.Equal(t, coach.ATSCheck(out.Profile), out.ATS)
	assert.Equal(t, 85, out.ATS.Score)
}

func TestOptimizeForATSKeepsSummaryOnFailure(t *testing.T) {
	gen := &scriptedGenerator{answers: []any{
		"SQL, Python",
		&GenerationError{Provider: "gemini", Attempts: 3, Err: errors.New("unavailable")},
	}}
	a := NewAssistant(gen)

	p := sampleProfile()
	out := a.OptimizeForATS(context.Background(), p, atsJob)

	assert.True(t, out.Summary.Fallback)
	assert.Equal(t, p.ProfessionalSummary, out.Profile.ProfessionalSummary)

	var genErr *GenerationError
	require.ErrorAs(t, out.Err(), &genErr)
}

func TestOptimizeForATSRejectsUnsafeRewrite(t *testing.T) {
	gen := &scriptedGenerator{answers: []any{"SQL", "Expert en hack de systèmes"}}
	a := NewAssistant(gen)

	out := a.OptimizeForATS(context.Background(), sampleProfile(), atsJob)

	assert.ErrorIs(t, out.Summary.Err, ErrUnsafeContent)
	assert.Equal(t, sampleProfile().ProfessionalSummary, out.Profile.ProfessionalSummary)
}

func TestOptimizeForATSSkipsRewriteWithoutInput(t *testing.T) {
	gen := &scriptedGenerator{answers: []any{"SQL, Python"}}
	a := NewAssistant(gen)

	p := sampleProfile()
	p.ProfessionalSummary = ""

	out := a.OptimizeForATS(context.Background(), p, atsJob)
	require.NoError(t, out.Err())
	assert.Len(t, gen.prompts, 1)
	assert.Empty(t, out.Profile.ProfessionalSummary)
	assert.Contains(t, out.ATS.Recommendations, "Add a catchy professional summary")

	// no keywords: nothing to integrate
	out = a.OptimizeForATS(context.Background(), sampleProfile(), "   ")
	assert.ErrorIs(t, out.Err(), ErrEmptyInput)
	assert.False(t, out.Summary.Fallback)
	assert.Equal(t, sampleProfile().ProfessionalSummary, out.Summary.Text)
}

func TestOptimizeForATSDemo(t *testing.T) {
	gen := &scriptedGenerator{}
	a := NewAssistant(gen, WithDemo(true))

	out := a.OptimizeForATS(context.Background(), nil, atsJob)

	assert.Empty(t, gen.prompts)
	assert.True(t, out.Summary.Demo)
	assert.Equal(t, demo.Keywords(), out.Keywords.Items)
	assert.Equal(t, 20, out.ATS.Score)
}
