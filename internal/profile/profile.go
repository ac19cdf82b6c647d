// Package profile holds the candidate career profile and job description types
// together with the boundary checks that turn raw form or file input into them.
package profile

import (
	"strings"
	"time"
)

// JobDescription is the free-text job offer. Everything derived from it is
// computed on the fly by substring search.
type JobDescription string

// Lower returns the lowercased job text used for keyword lookups.
func (j JobDescription) Lower() string {
	return strings.ToLower(string(j))
}

// IsEmpty reports whether the job text contains anything besides whitespace.
func (j JobDescription) IsEmpty() bool {
	return strings.TrimSpace(string(j)) == ""
}

type PersonalInfo struct {
	FirstName string `mapstructure:"first_name" json:"first_name,omitempty" validate:"max=100"`
	LastName  string `mapstructure:"last_name" json:"last_name,omitempty" validate:"max=100"`
	Email     string `mapstructure:"email" json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `mapstructure:"phone" json:"phone,omitempty" validate:"max=40"`
	Location  string `mapstructure:"location" json:"location,omitempty" validate:"max=200"`
}

// Experience is a single position. EndDate is empty or a "present" marker for
// the current job.
type Experience struct {
	Company      string   `mapstructure:"company" json:"company,omitempty" validate:"max=200"`
	Position     string   `mapstructure:"position" json:"position" validate:"required,max=200"`
	StartDate    string   `mapstructure:"start_date" json:"start_date,omitempty" validate:"omitempty,cvdate"`
	EndDate      string   `mapstructure:"end_date" json:"end_date,omitempty" validate:"omitempty,cvend"`
	Description  string   `mapstructure:"description" json:"description,omitempty"`
	Achievements []string `mapstructure:"achievements" json:"achievements,omitempty" validate:"dive,required"`
}

type Skill struct {
	Name     string `mapstructure:"name" json:"name" validate:"required,max=100"`
	Level    string `mapstructure:"level" json:"level,omitempty"`
	Category string `mapstructure:"category" json:"category,omitempty"`
}

type Education struct {
	Degree      string `mapstructure:"degree" json:"degree" validate:"required,max=200"`
	Institution string `mapstructure:"institution" json:"institution,omitempty" validate:"max=200"`
	Year        string `mapstructure:"year" json:"year,omitempty"`
}

type Project struct {
	Name        string `mapstructure:"name" json:"name" validate:"required"`
	Description string `mapstructure:"description" json:"description,omitempty"`
}

// CandidateProfile is the career profile collected from the user.
// Experiences are expected most-recent-first; nothing here sorts them.
type CandidateProfile struct {
	PersonalInfo        PersonalInfo `mapstructure:"personal_info" json:"personal_info"`
	ProfessionalSummary string       `mapstructure:"professional_summary" json:"professional_summary,omitempty"`
	TargetPosition      string       `mapstructure:"target_position" json:"target_position,omitempty" validate:"max=200"`
	Experiences         []Experience `mapstructure:"experiences" json:"experiences,omitempty" validate:"dive"`
	Skills              []Skill      `mapstructure:"skills" json:"skills,omitempty" validate:"dive"`
	Education           []Education  `mapstructure:"education" json:"education,omitempty" validate:"dive"`
	Projects            []Project    `mapstructure:"projects" json:"projects,omitempty" validate:"dive"`
}

// FullName joins first and last name, skipping blanks.
func (p *CandidateProfile) FullName() string {
	parts := make([]string, 0, 2)
	for _, s := range []string{p.PersonalInfo.FirstName, p.PersonalInfo.LastName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// SkillNames returns skill names in profile order.
func (p *CandidateProfile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}
	return names
}

// TotalExperienceYears sums the duration of every experience relative to now.
func (p *CandidateProfile) TotalExperienceYears(now time.Time) float64 {
	months := 0
	for _, exp := range p.Experiences {
		months += exp.Months(now)
	}
	return float64(months) / 12
}

// HasAchievements reports whether any experience lists at least one achievement.
func (p *CandidateProfile) HasAchievements() bool {
	for _, exp := range p.Experiences {
		if len(exp.Achievements) > 0 {
			return true
		}
	}
	return false
}

// Text renders the profile as plain text, the payload sent to text generators.
func (p *CandidateProfile) Text() string {
	var b strings.Builder

	if name := p.FullName(); name != "" {
		b.WriteString("Nom: " + name + "\n")
	}
	if p.PersonalInfo.Location != "" {
		b.WriteString("Localisation: " + p.PersonalInfo.Location + "\n")
	}
	if p.TargetPosition != "" {
		b.WriteString("Poste visé: " + p.TargetPosition + "\n")
	}
	if p.ProfessionalSummary != "" {
		b.WriteString("\nRésumé:\n" + strings.TrimSpace(p.ProfessionalSummary) + "\n")
	}

	if len(p.Experiences) > 0 {
		b.WriteString("\nExpériences:\n")
		for _, exp := range p.Experiences {
			b.WriteString("- " + exp.Position)
			if exp.Company != "" {
				b.WriteString(" chez " + exp.Company)
			}
			if period := exp.Period(); period != "" {
				b.WriteString(" (" + period + ")")
			}
			b.WriteString("\n")
			if d := strings.TrimSpace(exp.Description); d != "" {
				b.WriteString("  " + d + "\n")
			}
			for _, a := range exp.Achievements {
				b.WriteString("  * " + a + "\n")
			}
		}
	}

	if len(p.Skills) > 0 {
		b.WriteString("\nCompétences: " + strings.Join(p.SkillNames(), ", ") + "\n")
	}

	if len(p.Education) > 0 {
		b.WriteString("\nFormation:\n")
		for _, edu := range p.Education {
			b.WriteString("- " + edu.Degree)
			if edu.Institution != "" {
				b.WriteString(", " + edu.Institution)
			}
			if edu.Year != "" {
				b.WriteString(" (" + edu.Year + ")")
			}
			b.WriteString("\n")
		}
	}

	if len(p.Projects) > 0 {
		b.WriteString("\nProjets:\n")
		for _, pr := range p.Projects {
			b.WriteString("- " + pr.Name)
			if pr.Description != "" {
				b.WriteString(": " + pr.Description)
			}
			b.WriteString("\n")
		}
	}

	return strings.TrimSpace(b.String())
}
