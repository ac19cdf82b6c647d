package scoring

import (
	"math"
	"strings"

	"github.com/spigell/phoenix-cv/internal/profile"
)

type SkillsMatch struct {
	Score          int      `json:"score"`
	MatchingSkills []string `json:"matching_skills"`
	TotalSkills    int      `json:"total_skills"`
}

// MatchSkills counts candidate skills found in the job text.
func MatchSkills(skills []profile.Skill, job profile.JobDescription) SkillsMatch {
	text := job.Lower()
	matching := make([]string, 0, len(skills))

	for _, skill := range skills {
		name := strings.ToLower(strings.TrimSpace(skill.Name))
		if name == "" {
			continue
		}
		if strings.Contains(text, name) {
			matching = append(matching, name)
		}
	}

	ratio := float64(len(matching)) / float64(max(len(skills), 1))

	return SkillsMatch{
		Score:          clamp(int(math.Round(ratio * 100))),
		MatchingSkills: matching,
		TotalSkills:    len(skills),
	}
}

type ExperienceMatch struct {
	Score            int     `json:"score"`
	CandidateYears   float64 `json:"candidate_years"`
	RequiredYears    float64 `json:"required_years"`
	SeniorityKeyword string  `json:"seniority_keyword,omitempty"`
}

// MatchExperienceLevel compares candidate years with the seniority the job text
// implies. Meeting the requirement starts at 100 (70 + 30 bonus); falling short
// never goes below 30.
func MatchExperienceLevel(years float64, job profile.JobDescription, rules []SeniorityRule, defaultYears float64) ExperienceMatch {
	if years < 0 || math.IsNaN(years) {
		years = 0
	}

	required, keyword := requiredYears(job.Lower(), rules, defaultYears)

	ratio := years / required
	var score float64
	if years >= required {
		score = math.Min(100, ratio*70+30)
	} else {
		score = math.Max(30, ratio*70)
	}

	return ExperienceMatch{
		Score:            clamp(int(score)),
		CandidateYears:   years,
		RequiredYears:    required,
		SeniorityKeyword: keyword,
	}
}

func requiredYears(text string, rules []SeniorityRule, defaultYears float64) (float64, string) {
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(text, strings.ToLower(kw)) && rule.RequiredYears > 0 {
				return rule.RequiredYears, kw
			}
		}
	}
	if defaultYears <= 0 {
		defaultYears = DefaultTables().DefaultRequiredYears
	}
	return defaultYears, ""
}

type SectorMatch struct {
	Score               int    `json:"score"`
	DetectedSector      string `json:"detected_sector"`
	RelevantExperiences int    `json:"relevant_experiences"`
}

// AlignSector detects the job's sector and scores the share of experiences
// mentioning one of its keywords.
func AlignSector(experiences []profile.Experience, job profile.JobDescription, sectors []Sector, fallback string) SectorMatch {
	detected, ok := detectSector(job.Lower(), sectors)

	name := fallback
	var keywords []string
	if ok {
		name = detected.Name
		keywords = detected.Keywords
	}

	relevant := 0
	for _, exp := range experiences {
		text := strings.ToLower(exp.Company + " " + exp.Position + " " + exp.Description)
		if containsAny(text, keywords) {
			relevant++
		}
	}

	ratio := float64(relevant) / float64(max(len(experiences), 1))

	return SectorMatch{
		Score:               clamp(int(ratio * 100)),
		DetectedSector:      name,
		RelevantExperiences: relevant,
	}
}

// detectSector picks the sector with the strictly highest keyword count; ties
// keep the earlier table entry.
func detectSector(text string, sectors []Sector) (Sector, bool) {
	best := -1
	bestCount := 0
	for i, sector := range sectors {
		if count := countKeywords(text, sector.Keywords); count > bestCount {
			best, bestCount = i, count
		}
	}
	if best < 0 {
		return Sector{}, false
	}
	return sectors[best], true
}

type EducationMatch struct {
	Score         int    `json:"score"`
	HighestDegree string `json:"highest_degree,omitempty"`
	Relevance     string `json:"relevance,omitempty"`
}

// AssessEducation scores the best recognised degree level.
func AssessEducation(education []profile.Education, t Tables) EducationMatch {
	if len(education) == 0 {
		return EducationMatch{Score: clamp(t.NoEducationScore), Relevance: "no education provided"}
	}

	best := 0
	for _, edu := range education {
		degree := strings.ToLower(edu.Degree)
		for _, level := range t.Degrees {
			if strings.Contains(degree, strings.ToLower(level.Keyword)) {
				best = max(best, level.Score)
				break
			}
		}
	}

	if best == 0 {
		best = t.UnknownDegreeScore
	}

	return EducationMatch{
		Score:         clamp(best),
		HighestDegree: education[0].Degree,
	}
}

func countKeywords(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			count++
		}
	}
	return count
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func clamp(score int) int {
	return min(100, max(0, score))
}
