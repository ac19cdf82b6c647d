// Package ai turns a candidate profile into generated career documents. The
// heuristic score never depends on it; every operation degrades to demo or
// fallback content when the generator fails.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/phoenix-cv/internal/ai/demo"
	"github.com/spigell/phoenix-cv/internal/ai/prompts"
	"github.com/spigell/phoenix-cv/internal/logger"
	"github.com/spigell/phoenix-cv/internal/profile"
)

const (
	maxAchievements = 3
	maxKeywords     = 15
	summaryExps     = 3
	summarySkills   = 8

	defaultCVTarget      = "Poste en reconversion professionnelle"
	defaultSummaryTarget = "Évolution de carrière"

	defaultMaxLogLength = 200
)

// Generator is the single capability the assistant needs from an AI provider.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of an assistant operation. Demo marks canned
// demonstration output, Fallback marks substitute content served after an
// error, which is kept in Err.
type Result struct {
	Text     string   `json:"text,omitempty"`
	Items    []string `json:"items,omitempty"`
	Demo     bool     `json:"demo"`
	Fallback bool     `json:"fallback"`
	Err      error    `json:"-"`
}

// ErrorMessage returns the error text or an empty string.
func (r *Result) ErrorMessage() string {
	if r == nil || r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

type Assistant struct {
	generator Generator
	demo      bool
	logger    *zap.Logger
	maxLogLen int
	now       func() time.Time
	stats     *statsRecorder
}

type Option func(*Assistant)

// WithDemo serves canned texts without calling the generator.
func WithDemo(enabled bool) Option {
	return func(a *Assistant) { a.demo = enabled }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Assistant) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithMaxLogLength(n int) Option {
	return func(a *Assistant) {
		if n > 0 {
			a.maxLogLen = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAssistant creates an assistant over g. A nil generator is allowed: every
// operation then falls back as if the generator had failed.
func NewAssistant(g Generator, opts ...Option) *Assistant {
	a := &Assistant{
		generator: g,
		logger:    zap.NewNop(),
		maxLogLen: defaultMaxLogLength,
		now:       time.Now,
		stats:     &statsRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Demo reports whether the assistant serves canned texts.
func (a *Assistant) Demo() bool { return a.demo }

// Stats returns the generator usage so far. Demo answers are not counted.
func (a *Assistant) Stats() Stats { return a.stats.snapshot() }

// GenerateCV writes a markdown CV for the target position.
func (a *Assistant) GenerateCV(ctx context.Context, p *profile.CandidateProfile, target string) *Result {
	if a.demo {
		return &Result{Text: demo.CV(target), Demo: true}
	}

	p = orEmpty(p)
	if target = sanitizeLine(target, maxLineRunes); target == "" {
		target = sanitizeLine(p.TargetPosition, maxLineRunes)
	}

	text, err := a.run(ctx, "generate_cv", prompts.CV, map[string]string{
		"PROFILE": sanitizeBlock(p.Text(), maxBlockRunes),
		"TARGET":  orDefault(target, defaultCVTarget),
	})
	if err != nil {
		return &Result{Text: demo.CV(target), Fallback: true, Err: err}
	}

	return &Result{Text: text}
}

// AnalyzeFit writes a narrative analysis of the profile against the job.
func (a *Assistant) AnalyzeFit(ctx context.Context, p *profile.CandidateProfile, job profile.JobDescription) *Result {
	if a.demo {
		return &Result{Text: demo.Analysis(), Demo: true}
	}

	if job.IsEmpty() {
		return &Result{Text: demo.Analysis(), Fallback: true, Err: fmt.Errorf("job description: %w", ErrEmptyInput)}
	}

	text, err := a.run(ctx, "analyze_fit", prompts.Analysis, map[string]string{
		"PROFILE": sanitizeBlock(orEmpty(p).Text(), maxBlockRunes),
		"JOB":     sanitizeBlock(string(job), maxBlockRunes),
	})
	if err != nil {
		return &Result{Text: demo.Analysis(), Fallback: true, Err: err}
	}

	return &Result{Text: text}
}

// EnhanceSummary rewrites the professional summary toward the target. The
// original summary is returned unchanged on failure.
func (a *Assistant) EnhanceSummary(ctx context.Context, p *profile.CandidateProfile, target string) *Result {
	if a.demo {
		return &Result{Text: demo.Summary(target), Demo: true}
	}

	p = orEmpty(p)

	var exps strings.Builder
	for i, exp := range p.Experiences {
		if i == summaryExps {
			break
		}
		fmt.Fprintf(&exps, "  - %s chez %s\n",
			sanitizeLine(exp.Position, maxLineRunes), sanitizeLine(exp.Company, maxLineRunes))
	}

	names := p.SkillNames()
	if len(names) > summarySkills {
		names = names[:summarySkills]
	}

	text, err := a.run(ctx, "enhance_summary", prompts.Summary, map[string]string{
		"EXPERIENCES": strings.TrimRight(exps.String(), "\n"),
		"SKILLS":      sanitizeLine(strings.Join(names, ", "), maxLineRunes),
		"TARGET":      orDefault(sanitizeLine(target, maxLineRunes), defaultSummaryTarget),
	})
	if err == nil {
		text, err = cleanResponse(text)
	}
	if err != nil {
		return &Result{Text: p.ProfessionalSummary, Fallback: true, Err: err}
	}

	return &Result{Text: text}
}

// SuggestAchievements proposes up to three quantified achievements for an
// experience.
func (a *Assistant) SuggestAchievements(ctx context.Context, description, position string) *Result {
	if a.demo {
		return &Result{Items: demo.Achievements(), Demo: true}
	}

	text, err := a.run(ctx, "suggest_achievements", prompts.Achievements, map[string]string{
		"POSITION":    orDefault(sanitizeLine(position, maxLineRunes), "ce poste"),
		"DESCRIPTION": sanitizeBlock(description, maxBlockRunes),
	})

	var items []string
	if err == nil {
		if items = parseBullets(text, maxAchievements); len(items) == 0 {
			err = errors.New("no achievements found in response")
		}
	}
	if err != nil {
		return &Result{Items: demo.Achievements(), Fallback: true, Err: err}
	}

	return &Result{Items: items}
}

// ExtractKeywords lists up to fifteen keywords from the start of the job text.
func (a *Assistant) ExtractKeywords(ctx context.Context, job profile.JobDescription) *Result {
	if a.demo {
		return &Result{Items: demo.Keywords(), Demo: true}
	}

	if job.IsEmpty() {
		return &Result{Items: []string{}, Fallback: true, Err: fmt.Errorf("job description: %w", ErrEmptyInput)}
	}

	text, err := a.run(ctx, "extract_keywords", prompts.Keywords, map[string]string{
		"JOB": sanitizeBlock(capRunes(string(job), maxKeywordInput), maxKeywordInput),
	})
	if err != nil {
		return &Result{Items: []string{}, Fallback: true, Err: err}
	}

	return &Result{Items: parseList(text, maxKeywords)}
}

func (a *Assistant) run(ctx context.Context, operation, template string, values map[string]string) (string, error) {
	log := logger.ForOperation(a.logger, operation)

	if a.generator == nil {
		log.Debug("no generator configured, serving fallback")
		return "", ErrNoGenerator
	}

	prompt, err := prompts.Render(template, values)
	if err != nil {
		return "", err
	}

	start := a.now()
	text, err := a.generator.GenerateContent(ctx, prompt)
	elapsed := a.now().Sub(start)
	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = errors.New("generator returned empty text")
	}

	a.stats.record(err == nil, elapsed, a.now())

	if err != nil {
		log.Warn("generation failed, serving fallback", zap.Error(err), zap.Duration("elapsed", elapsed))
		return "", err
	}

	log.Debug("generation succeeded",
		zap.Duration("elapsed", elapsed),
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", logger.Truncate(text, a.maxLogLen)),
	)

	return text, nil
}

func orEmpty(p *profile.CandidateProfile) *profile.CandidateProfile {
	if p == nil {
		return &profile.CandidateProfile{}
	}
	return p
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
