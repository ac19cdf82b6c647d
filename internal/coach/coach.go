// Package coach grades how complete and well-formed a career profile is,
// independently of any job description.
package coach

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spigell/phoenix-cv/internal/profile"
)

const (
	maxTips = 5

	summaryMinRunes  = 50
	summaryGoodRunes = 100
	minExperiences   = 2
	minSkills        = 5
	tipSkills        = 8
	nextStepsBelow   = 80
	atsWeakBelow     = 60
	atsBonus         = 20
)

// Section names reported as missing by Completeness.
const (
	SectionPersonalInfo = "personal_info"
	SectionSummary      = "professional_summary"
	SectionExperience   = "experience"
	SectionEducation    = "education"
	SectionSkills       = "skills"
	SectionContact      = "contact_info"
)

type Completeness struct {
	Percentage      float64  `json:"percentage"`
	Completed       int      `json:"completed_sections"`
	Total           int      `json:"total_sections"`
	MissingSections []string `json:"missing_sections"`
}

type check struct {
	section string
	ok      func(p *profile.CandidateProfile) bool
}

var checks = []check{
	{SectionPersonalInfo, func(p *profile.CandidateProfile) bool {
		return notBlank(p.PersonalInfo.FirstName) && notBlank(p.PersonalInfo.LastName)
	}},
	{SectionSummary, func(p *profile.CandidateProfile) bool {
		return utf8.RuneCountInString(p.ProfessionalSummary) > summaryMinRunes
	}},
	{SectionExperience, func(p *profile.CandidateProfile) bool { return len(p.Experiences) >= minExperiences }},
	{SectionEducation, func(p *profile.CandidateProfile) bool { return len(p.Education) >= 1 }},
	{SectionSkills, func(p *profile.CandidateProfile) bool { return len(p.Skills) >= minSkills }},
	{SectionContact, func(p *profile.CandidateProfile) bool {
		return notBlank(p.PersonalInfo.Email) && notBlank(p.PersonalInfo.Phone)
	}},
}

// AnalyzeCompleteness runs the six section checks.
func AnalyzeCompleteness(p *profile.CandidateProfile) Completeness {
	p = orEmpty(p)
	c := Completeness{Total: len(checks), MissingSections: []string{}}
	for _, ch := range checks {
		if ch.ok(p) {
			c.Completed++
		} else {
			c.MissingSections = append(c.MissingSections, ch.section)
		}
	}
	c.Percentage = math.Round(float64(c.Completed)/float64(c.Total)*1000) / 10
	return c
}

// QualityScore is a weighted blend of completeness, experience depth, skill
// diversity, education and summary length, truncated to an integer.
func QualityScore(p *profile.CandidateProfile) int {
	p = orEmpty(p)

	education := 40.0
	if len(p.Education) > 0 {
		education = 80
	}
	summary := 50.0
	if utf8.RuneCountInString(p.ProfessionalSummary) > summaryGoodRunes {
		summary = 90
	}

	score := AnalyzeCompleteness(p).Percentage*0.25 +
		math.Min(100, float64(len(p.Experiences)*25))*0.25 +
		math.Min(100, float64(len(p.Skills)*10))*0.20 +
		education*0.15 +
		summary*0.15

	return int(score)
}

// Grade maps a quality score to a letter grade.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B+"
	case score >= 60:
		return "B"
	default:
		return "C+"
	}
}

// ImprovementTips lists at most five concrete edits for the profile.
func ImprovementTips(p *profile.CandidateProfile) []string {
	p = orEmpty(p)
	tips := []string{}

	if utf8.RuneCountInString(p.ProfessionalSummary) < summaryGoodRunes {
		tips = append(tips, "Flesh out your professional summary (at least 100 characters)")
	}
	if len(p.Skills) < tipSkills {
		tips = append(tips, "Add more skills to round out your profile")
	}
	if !p.HasAchievements() {
		tips = append(tips, "Add quantified achievements to your experiences")
	}
	if !notBlank(p.PersonalInfo.Email) || !notBlank(p.PersonalInfo.Phone) {
		tips = append(tips, "Provide both an email address and a phone number")
	}
	if len(p.Education) == 0 {
		tips = append(tips, "List at least one degree or training")
	}

	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}
	return tips
}

// NextSteps suggests what to work on after the tips.
func NextSteps(p *profile.CandidateProfile) []string {
	p = orEmpty(p)
	steps := []string{}

	if AnalyzeCompleteness(p).Percentage < nextStepsBelow {
		steps = append(steps, "Complete the missing sections of your CV")
	}
	if len(p.Projects) == 0 {
		steps = append(steps, "Add a few projects that demonstrate your skills")
	}
	steps = append(steps, "Run a job match against an offer you are targeting")

	return steps
}

type ATSReport struct {
	Score            int      `json:"score"`
	SectionsAnalyzed []string `json:"sections_analyzed"`
	Recommendations  []string `json:"recommendations"`
}

// ATSCheck scores the presence of the sections applicant tracking systems
// look for.
func ATSCheck(p *profile.CandidateProfile) ATSReport {
	p = orEmpty(p)

	sections := 0
	if notBlank(p.ProfessionalSummary) {
		sections += 20
	}
	if len(p.Experiences) > 0 {
		sections += 25
	}
	if len(p.Skills) > 0 {
		sections += 20
	}
	if len(p.Education) > 0 {
		sections += 15
	}

	r := ATSReport{
		Score:            min(100, sections+atsBonus),
		SectionsAnalyzed: []string{"summary", "experience", "skills", "education"},
		Recommendations:  []string{},
	}

	if r.Score < atsWeakBelow {
		r.Recommendations = append(r.Recommendations, "Fill in every main section of the CV")
	}
	if !notBlank(p.ProfessionalSummary) {
		r.Recommendations = append(r.Recommendations, "Add a catchy professional summary")
	}
	if len(p.Skills) < minSkills {
		r.Recommendations = append(r.Recommendations, "Expand the skills section")
	}

	return r
}

type Report struct {
	QualityScore    int          `json:"quality_score"`
	Grade           string       `json:"grade"`
	Completeness    Completeness `json:"completeness"`
	ImprovementTips []string     `json:"improvement_tips"`
	NextSteps       []string     `json:"next_steps"`
	ATS             ATSReport    `json:"ats"`
}

// Coach aggregates every profile check into one report.
func Coach(p *profile.CandidateProfile) *Report {
	score := QualityScore(p)
	return &Report{
		QualityScore:    score,
		Grade:           Grade(score),
		Completeness:    AnalyzeCompleteness(p),
		ImprovementTips: ImprovementTips(p),
		NextSteps:       NextSteps(p),
		ATS:             ATSCheck(p),
	}
}

func notBlank(s string) bool { return strings.TrimSpace(s) != "" }

func orEmpty(p *profile.CandidateProfile) *profile.CandidateProfile {
	if p == nil {
		return &profile.CandidateProfile{}
	}
	return p
}
