package scoring

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Category names a sub-score in a MatchResult.
type Category string

const (
	CategorySkills     Category = "skills_compatibility"
	CategoryExperience Category = "experience_alignment"
	CategorySector     Category = "sector_fit"
	CategoryEducation  Category = "education_relevance"
)

// Categories lists sub-scores in check order.
var Categories = []Category{CategorySkills, CategoryExperience, CategorySector, CategoryEducation}

// SeniorityRule maps job-text keywords to required years of experience.
type SeniorityRule struct {
	Keywords      []string `mapstructure:"keywords" json:"keywords" validate:"min=1,dive,required"`
	RequiredYears float64  `mapstructure:"required-years" json:"required_years" validate:"gt=0"`
}

// Sector is a named keyword list. Order in a table is the tie-break order.
type Sector struct {
	Name     string   `mapstructure:"name" json:"name" validate:"required"`
	Keywords []string `mapstructure:"keywords" json:"keywords" validate:"dive,required"`
}

// DegreeLevel scores degrees whose name contains Keyword.
type DegreeLevel struct {
	Keyword string `mapstructure:"keyword" json:"keyword" validate:"required"`
	Score   int    `mapstructure:"score" json:"score" validate:"gte=0,lte=100"`
}

// Advice is emitted when the Category sub-score is below Below.
type Advice struct {
	Category Category `mapstructure:"category" json:"category" validate:"required"`
	Below    int      `mapstructure:"below" json:"below" validate:"gte=0,lte=101"`
	Message  string   `mapstructure:"message" json:"message" validate:"required"`
}

// Tables carries every keyword list and constant the sub-scorers use. A Tables
// value is treated as read-only once handed to an Engine.
type Tables struct {
	Seniority            []SeniorityRule `mapstructure:"seniority" validate:"dive"`
	DefaultRequiredYears float64         `mapstructure:"default-required-years" validate:"gt=0"`

	Sectors       []Sector `mapstructure:"sectors" validate:"dive"`
	DefaultSector string   `mapstructure:"default-sector"`

	Degrees            []DegreeLevel `mapstructure:"degrees" validate:"dive"`
	NoEducationScore   int           `mapstructure:"no-education-score" validate:"gte=0,lte=100"`
	UnknownDegreeScore int           `mapstructure:"unknown-degree-score" validate:"gte=0,lte=100"`

	Culture      []Sector `mapstructure:"culture" validate:"dive"`
	CommonSkills []string `mapstructure:"common-skills" validate:"dive,required"`

	Advice             []Advice `mapstructure:"advice" validate:"dive"`
	MaxRecommendations int      `mapstructure:"max-recommendations" validate:"gte=0"`
}

// DefaultTables returns a fresh copy of the built-in French tables.
func DefaultTables() Tables {
	return Tables{
		Seniority: []SeniorityRule{
			{Keywords: []string{"senior", "lead", "manager", "director"}, RequiredYears: 7},
			{Keywords: []string{"junior", "entry", "débutant"}, RequiredYears: 2},
		},
		DefaultRequiredYears: 4,

		Sectors: []Sector{
			{Name: "tech", Keywords: []string{"développement", "programmation", "logiciel", "informatique", "digital"}},
			{Name: "finance", Keywords: []string{"comptabilité", "finance", "banque", "gestion", "audit"}},
			{Name: "marketing", Keywords: []string{"marketing", "communication", "publicité", "digital", "social media"}},
			{Name: "rh", Keywords: []string{"ressources humaines", "recrutement", "formation", "rh", "talent"}},
		},
		DefaultSector: "généraliste",

		Degrees: []DegreeLevel{
			{Keyword: "doctorat", Score: 100},
			{Keyword: "phd", Score: 100},
			{Keyword: "master", Score: 90},
			{Keyword: "licence", Score: 75},
			{Keyword: "bts", Score: 70},
			{Keyword: "dut", Score: 70},
			{Keyword: "bac", Score: 50},
		},
		NoEducationScore:   40,
		UnknownDegreeScore: 60,

		Culture: []Sector{
			{Name: "innovation", Keywords: []string{"innovation", "créatif", "startup", "agile", "disruption"}},
			{Name: "collaboration", Keywords: []string{"équipe", "collaboration", "collectif", "partenariat"}},
			{Name: "leadership", Keywords: []string{"leadership", "autonomie", "responsabilité", "initiative"}},
			{Name: "growth", Keywords: []string{"croissance", "développement", "évolution", "formation"}},
		},
		CommonSkills: []string{
			"Python", "JavaScript", "React", "Angular", "Vue.js", "Node.js",
			"Java", "C++", "SQL", "PostgreSQL", "MySQL", "MongoDB",
			"AWS", "Azure", "Docker", "Kubernetes", "Git", "Jenkins",
			"Agile", "Scrum", "Leadership", "Management", "Communication",
		},

		Advice: []Advice{
			{Category: CategorySkills, Below: 70, Message: "Strengthen the technical skills this position asks for"},
			{Category: CategoryExperience, Below: 60, Message: "Put more emphasis on your transferable experience"},
			{Category: CategorySector, Below: 50, Message: "Adapt your vocabulary to the target sector"},
		},
		MaxRecommendations: 5,
	}
}

// Weights are the per-category percentages of the compatibility score.
type Weights struct {
	Skills     int `mapstructure:"skills" json:"skills" validate:"gte=0,lte=100"`
	Experience int `mapstructure:"experience" json:"experience" validate:"gte=0,lte=100"`
	Sector     int `mapstructure:"sector" json:"sector" validate:"gte=0,lte=100"`
	Education  int `mapstructure:"education" json:"education" validate:"gte=0,lte=100"`
}

// DefaultWeights returns the 40/35/15/10 split.
func DefaultWeights() Weights {
	return Weights{Skills: 40, Experience: 35, Sector: 15, Education: 10}
}

// Of returns the weight of a category.
func (w Weights) Of(c Category) int {
	switch c {
	case CategorySkills:
		return w.Skills
	case CategoryExperience:
		return w.Experience
	case CategorySector:
		return w.Sector
	case CategoryEducation:
		return w.Education
	default:
		return 0
	}
}

// Validate requires every weight in range and a total of exactly 100.
func (w Weights) Validate() error {
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("scoring weights: %w", err)
	}
	if sum := w.Skills + w.Experience + w.Sector + w.Education; sum != 100 {
		return fmt.Errorf("scoring weights must sum to 100, got %d", sum)
	}
	return nil
}

var validate = validator.New()

// Validate checks table constants and advice categories.
func (t Tables) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("scoring tables: %w", err)
	}
	for _, a := range t.Advice {
		if !knownCategory(a.Category) {
			return fmt.Errorf("scoring tables: unknown advice category %q", a.Category)
		}
	}
	return nil
}

func knownCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// TablesFrom overlays a configuration map on the default tables. Lists present
// in raw replace the defaults wholesale; unknown keys are rejected.
func TablesFrom(raw map[string]any) (Tables, error) {
	tables := DefaultTables()
	if len(raw) == 0 {
		return tables, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Result:           &tables,
	})
	if err != nil {
		return Tables{}, fmt.Errorf("creating tables decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		var merr *mapstructure.Error
		if errors.As(err, &merr) {
			return Tables{}, fmt.Errorf("scoring tables: %v", merr.Errors)
		}
		return Tables{}, fmt.Errorf("scoring tables: %w", err)
	}

	if err := tables.Validate(); err != nil {
		return Tables{}, err
	}

	return tables, nil
}
