package scoring

import (
	"fmt"
	"strings"

	"github.com/spigell/phoenix-cv/internal/profile"
)

const (
	cultureHitScore     = 20
	maxSkillSuggestions = 3
)

type CultureFit struct {
	Scores          map[string]int `json:"scores"`
	DominantCulture string         `json:"dominant_culture"`
	FitPercentage   int            `json:"fit_percentage"`
}

// AssessCulture scores each culture indicator by keyword hits in the job text.
// The dominant culture is the first indicator with the highest score.
func AssessCulture(job profile.JobDescription, indicators []Sector) CultureFit {
	text := job.Lower()
	fit := CultureFit{Scores: make(map[string]int, len(indicators))}

	best := -1
	for _, ind := range indicators {
		score := clamp(countKeywords(text, ind.Keywords) * cultureHitScore)
		fit.Scores[ind.Name] = score
		if score > best {
			best = score
			fit.DominantCulture = ind.Name
			fit.FitPercentage = score
		}
	}

	return fit
}

type SkillGaps struct {
	RequiredSkills []string `json:"required_skills"`
	MatchingSkills []string `json:"matching_skills"`
	MissingSkills  []string `json:"missing_skills"`
	Suggestions    []string `json:"suggestions"`
}

// FindSkillGaps compares the well-known skills mentioned by the job with the
// candidate's own skills.
func FindSkillGaps(skills []profile.Skill, job profile.JobDescription, common []string) SkillGaps {
	text := job.Lower()

	owned := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		owned[strings.ToLower(strings.TrimSpace(s.Name))] = struct{}{}
	}

	gaps := SkillGaps{
		RequiredSkills: []string{},
		MatchingSkills: []string{},
		MissingSkills:  []string{},
		Suggestions:    []string{},
	}

	for _, skill := range common {
		lower := strings.ToLower(skill)
		if lower == "" || !strings.Contains(text, lower) {
			continue
		}
		gaps.RequiredSkills = append(gaps.RequiredSkills, skill)
		if _, ok := owned[lower]; ok {
			gaps.MatchingSkills = append(gaps.MatchingSkills, skill)
		} else {
			gaps.MissingSkills = append(gaps.MissingSkills, skill)
		}
	}

	for i, skill := range gaps.MissingSkills {
		if i == maxSkillSuggestions {
			break
		}
		gaps.Suggestions = append(gaps.Suggestions, fmt.Sprintf("Build your %s skills through online training", skill))
	}

	return gaps
}
