// Package scoring computes the heuristic CV/job compatibility score from four
// independent sub-scorers combined by fixed weights.
package scoring

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/phoenix-cv/internal/profile"
)

// Report is the full outcome of one Match call.
type Report struct {
	MatchResult

	Skills          SkillsMatch     `json:"skills"`
	Experience      ExperienceMatch `json:"experience"`
	Sector          SectorMatch     `json:"sector"`
	Education       EducationMatch  `json:"education"`
	Recommendations []string        `json:"recommendations"`
	Culture         CultureFit      `json:"culture_fit"`
	SkillGaps       SkillGaps       `json:"skill_gaps"`
}

// Engine runs the sub-scorers with a fixed set of tables and weights. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	tables  Tables
	weights Weights
	logger  *zap.Logger
	now     func() time.Time
}

type Option func(*Engine)

func WithTables(t Tables) Option {
	return func(e *Engine) { e.tables = t }
}

func WithWeights(w Weights) Option {
	return func(e *Engine) { e.weights = w }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock sets the reference time for open-ended experiences.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine builds an engine with the default tables and weights unless
// overridden.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		tables:  DefaultTables(),
		weights: DefaultWeights(),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.tables.Validate(); err != nil {
		return nil, err
	}
	if err := e.weights.Validate(); err != nil {
		return nil, err
	}

	return e, nil
}

// Weights returns the weights the engine combines with.
func (e *Engine) Weights() Weights { return e.weights }

type step struct {
	category Category
	run      func(p *profile.CandidateProfile, job profile.JobDescription, r *Report) int
}

func (e *Engine) steps() []step {
	return []step{
		{
			category: CategorySkills,
			run: func(p *profile.CandidateProfile, job profile.JobDescription, r *Report) int {
				r.Skills = MatchSkills(p.Skills, job)
				return r.Skills.Score
			},
		},
		{
			category: CategoryExperience,
			run: func(p *profile.CandidateProfile, job profile.JobDescription, r *Report) int {
				years := p.TotalExperienceYears(e.now())
				r.Experience = MatchExperienceLevel(years, job, e.tables.Seniority, e.tables.DefaultRequiredYears)
				return r.Experience.Score
			},
		},
		{
			category: CategorySector,
			run: func(p *profile.CandidateProfile, job profile.JobDescription, r *Report) int {
				r.Sector = AlignSector(p.Experiences, job, e.tables.Sectors, e.tables.DefaultSector)
				return r.Sector.Score
			},
		},
		{
			category: CategoryEducation,
			run: func(p *profile.CandidateProfile, _ profile.JobDescription, r *Report) int {
				r.Education = AssessEducation(p.Education, e.tables)
				return r.Education.Score
			},
		},
	}
}

// Match scores a profile against a job description. A nil profile is scored as
// an empty one.
func (e *Engine) Match(p *profile.CandidateProfile, job profile.JobDescription) *Report {
	if p == nil {
		p = &profile.CandidateProfile{}
	}

	report := &Report{
		MatchResult: MatchResult{Categories: make(map[Category]int, len(Categories))},
	}

	for _, s := range e.steps() {
		score := clamp(s.run(p, job, report))
		report.Categories[s.category] = score

		e.logger.Debug("scoring step",
			zap.String("name", string(s.category)),
			zap.Int("score", score),
			zap.Int("weight", e.weights.Of(s.category)),
		)
	}

	report.Score = Combine(report.Categories, e.weights)
	report.Recommendations = Recommend(report.Categories, e.tables.Advice, e.tables.MaxRecommendations)
	report.Culture = AssessCulture(job, e.tables.Culture)
	report.SkillGaps = FindSkillGaps(p.Skills, job, e.tables.CommonSkills)

	e.logger.Debug("match computed",
		zap.Int("compatibility_score", report.Score),
		zap.String("detected_sector", report.Sector.DetectedSector),
		zap.Int("recommendations", len(report.Recommendations)),
	)

	return report
}

// String renders a one-line summary for logs.
func (r *Report) String() string {
	return fmt.Sprintf("score=%d skills=%d experience=%d sector=%d education=%d",
		r.Score,
		r.Categories[CategorySkills],
		r.Categories[CategoryExperience],
		r.Categories[CategorySector],
		r.Categories[CategoryEducation],
	)
}
