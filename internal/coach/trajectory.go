package coach

import (
	"math"
	"strings"
	"time"

	"github.com/spigell/phoenix-cv/internal/profile"
)

const (
	careerSteps = 3

	baseSuccess        = 60
	experiencedSuccess = 20
	skilledSuccess     = 15
	maxSuccess         = 95
	experiencedYears   = 3
	skilledCount       = 8

	TrendAscending = "ascending"
	TrendStable    = "stable"
)

type CareerStep struct {
	Position string `json:"position"`
	Company  string `json:"company,omitempty"`
	Period   string `json:"period,omitempty"`
	Level    int    `json:"level"`
}

type CareerPath struct {
	Progression []CareerStep `json:"progression"`
	TotalYears  float64      `json:"total_years"`
	Trend       string       `json:"trend"`
}

// AnalyzeCareerPath describes the three most recent positions. Experiences are
// taken in profile order, most recent first.
func AnalyzeCareerPath(p *profile.CandidateProfile, now time.Time) CareerPath {
	p = orEmpty(p)

	path := CareerPath{
		Progression: make([]CareerStep, 0, careerSteps),
		TotalYears:  math.Round(p.TotalExperienceYears(now)*10) / 10,
		Trend:       TrendStable,
	}

	for i, exp := range p.Experiences {
		if i == careerSteps {
			break
		}
		path.Progression = append(path.Progression, CareerStep{
			Position: exp.Position,
			Company:  exp.Company,
			Period:   exp.Period(),
			Level:    i + 1,
		})
	}

	if len(path.Progression) > 1 {
		path.Trend = TrendAscending
	}

	return path
}

// SuccessProbability estimates the chance of a successful transition, in
// percent: 60 to start with, 20 more beyond three years of experience, 15 more
// beyond eight skills, 95 at most.
func SuccessProbability(p *profile.CandidateProfile, now time.Time) int {
	p = orEmpty(p)

	score := baseSuccess
	if p.TotalExperienceYears(now) > experiencedYears {
		score += experiencedSuccess
	}
	if len(p.Skills) > skilledCount {
		score += skilledSuccess
	}
	return min(maxSuccess, score)
}

type Trajectory struct {
	TargetRole         string     `json:"target_role"`
	Current            CareerPath `json:"current"`
	TransitionSteps    []string   `json:"transition_steps"`
	PrioritySkills     []string   `json:"priority_skills"`
	SkillsTimeline     string     `json:"skills_timeline"`
	Phases             []string   `json:"phases"`
	SuccessProbability int        `json:"success_probability"`
}

// PlanTrajectory builds a transition plan toward target, defaulting to the
// profile's target position.
func PlanTrajectory(p *profile.CandidateProfile, target string, now time.Time) *Trajectory {
	p = orEmpty(p)
	if target = strings.TrimSpace(target); target == "" {
		target = strings.TrimSpace(p.TargetPosition)
	}

	return &Trajectory{
		TargetRole:         target,
		Current:            AnalyzeCareerPath(p, now),
		TransitionSteps:    []string{"Identify the key skills of the role", "Keep training", "Network within the sector"},
		PrioritySkills:     []string{"Leadership", "Project management", "Communication"},
		SkillsTimeline:     "6-12 months",
		Phases:             []string{"Preparation (3 months)", "Transition (6 months)", "Consolidation (12 months)"},
		SuccessProbability: SuccessProbability(p, now),
	}
}
