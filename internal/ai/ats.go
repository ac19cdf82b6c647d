package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/phoenix-cv/internal/ai/prompts"
	"github.com/spigell/phoenix-cv/internal/coach"
	"github.com/spigell/phoenix-cv/internal/profile"
)

// keywords woven into the summary
const atsSummaryKeywords = 5

// ATSOptimization is a profile rewritten around the job keywords together with
// the ATS check of the rewritten profile.
type ATSOptimization struct {
	Keywords *Result                   `json:"keywords"`
	Summary  *Result                   `json:"summary"`
	Profile  *profile.CandidateProfile `json:"profile"`
	ATS      coach.ATSReport           `json:"ats"`
}

// Err returns the first generation error, if any.
func (o *ATSOptimization) Err() error {
	for _, r := range []*Result{o.Keywords, o.Summary} {
		if r != nil && r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// OptimizeForATS extracts the job keywords, rewrites the professional summary
// around the first five and runs the ATS check on the result. The input profile
// is not modified. Without keywords or summary the summary is kept as is.
func (a *Assistant) OptimizeForATS(ctx context.Context, p *profile.CandidateProfile, job profile.JobDescription) *ATSOptimization {
	optimized := *orEmpty(p)
	original := optimized.ProfessionalSummary

	out := &ATSOptimization{Keywords: a.ExtractKeywords(ctx, job)}
	out.Summary = a.integrateKeywords(ctx, original, out.Keywords.Items)

	optimized.ProfessionalSummary = out.Summary.Text
	out.Profile = &optimized
	out.ATS = coach.ATSCheck(out.Profile)

	a.logger.Debug("ats optimization done",
		zap.Int("keywords", len(out.Keywords.Items)),
		zap.Bool("summary_rewritten", !out.Summary.Fallback && out.Summary.Text != original),
		zap.Int("ats_score", out.ATS.Score),
	)

	return out
}

func (a *Assistant) integrateKeywords(ctx context.Context, summary string, keywords []string) *Result {
	if a.demo {
		return &Result{Text: summary, Demo: true}
	}
	if strings.TrimSpace(summary) == "" || len(keywords) == 0 {
		return &Result{Text: summary}
	}

	if len(keywords) > atsSummaryKeywords {
		keywords = keywords[:atsSummaryKeywords]
	}

	text, err := a.run(ctx, "integrate_keywords", prompts.ATSSummary, map[string]string{
		"KEYWORDS": sanitizeLine(strings.Join(keywords, ", "), maxLineRunes),
		"SUMMARY":  sanitizeBlock(summary, maxBlockRunes),
	})
	if err == nil {
		text, err = cleanResponse(text)
	}
	if err != nil {
		return &Result{Text: summary, Fallback: true, Err: err}
	}

	return &Result{Text: text}
}
