package scoring

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/phoenix-cv/internal/profile"
)

var fixedNow = func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) }

func candidate() *profile.CandidateProfile {
	return &profile.CandidateProfile{
		Experiences: []profile.Experience{
			{Company: "Acme", Position: "Développeur", StartDate: "2021-06", EndDate: "present", Description: "Programmation Python"},
			{Company: "Banque Y", Position: "Conseiller", StartDate: "2019-06", EndDate: "2021-06"},
		},
		Skills:    skills("Python", "SQL", "Excel"),
		Education: []profile.Education{{Degree: "Licence Économie"}},
	}
}

func TestCombine(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()

	assert.Equal(t, 100, Combine(map[Category]int{
		CategorySkills: 100, CategoryExperience: 100, CategorySector: 100, CategoryEducation: 100,
	}, w))

	// 20 + 12.25 + 7.5 + 4 = 43.75
	assert.Equal(t, 43, Combine(map[Category]int{
		CategorySkills: 50, CategoryExperience: 35, CategorySector: 50, CategoryEducation: 40,
	}, w))

	assert.Equal(t, 0, Combine(nil, w))

	// out of range sub-scores are clamped before weighting
	assert.Equal(t, 100, Combine(map[Category]int{
		CategorySkills: 500, CategoryExperience: 100, CategorySector: 100, CategoryEducation: 100,
	}, w))
	assert.Equal(t, 0, Combine(map[Category]int{CategorySkills: -50}, w))
}

func TestRecommend(t *testing.T) {
	t.Parallel()

	advice := DefaultTables().Advice

	all := Recommend(map[Category]int{
		CategorySkills: 10, CategoryExperience: 10, CategorySector: 10, CategoryEducation: 10,
	}, advice, 5)
	require.Len(t, all, 3)
	assert.Equal(t, advice[0].Message, all[0])
	assert.Equal(t, advice[1].Message, all[1])
	assert.Equal(t, advice[2].Message, all[2])

	none := Recommend(map[Category]int{
		CategorySkills: 70, CategoryExperience: 60, CategorySector: 50,
	}, advice, 5)
	assert.Empty(t, none)

	onlySector := Recommend(map[Category]int{
		CategorySkills: 90, CategoryExperience: 90, CategorySector: 49,
	}, advice, 5)
	assert.Equal(t, []string{advice[2].Message}, onlySector)
}

func TestRecommendNeverExceedsFive(t *testing.T) {
	t.Parallel()

	var advice []Advice
	for i := 0; i < 10; i++ {
		advice = append(advice, Advice{Category: CategorySkills, Below: 100, Message: "more"})
	}

	assert.Len(t, Recommend(map[Category]int{CategorySkills: 0}, advice, 50), 5)
	assert.Len(t, Recommend(map[Category]int{CategorySkills: 0}, advice, 0), 5)
	assert.Len(t, Recommend(map[Category]int{CategorySkills: 0}, advice, 2), 2)
}

func TestEngineMatch(t *testing.T) {
	engine, err := NewEngine(WithClock(fixedNow))
	require.NoError(t, err)

	job := profile.JobDescription("Développement logiciel junior: Python, Docker, SQL. Esprit d'équipe et innovation.")
	report := engine.Match(candidate(), job)

	// python + sql of 3 skills
	assert.Equal(t, 67, report.Categories[CategorySkills])
	// 5 years against 2 required
	assert.Equal(t, 100, report.Categories[CategoryExperience])
	assert.Equal(t, "tech", report.Sector.DetectedSector)
	assert.Equal(t, 50, report.Categories[CategorySector])
	assert.Equal(t, 75, report.Categories[CategoryEducation])

	// 26.8 + 35 + 7.5 + 7.5
	assert.Equal(t, 76, report.Score)
	assert.Equal(t, Combine(report.Categories, engine.Weights()), report.Score)

	assert.Equal(t, []string{
		DefaultTables().Advice[0].Message,
	}, report.Recommendations)

	assert.Equal(t, []string{"Python", "SQL", "Docker"}, report.SkillGaps.RequiredSkills)
	assert.Equal(t, []string{"Docker"}, report.SkillGaps.MissingSkills)
	assert.Len(t, report.SkillGaps.Suggestions, 1)

	assert.Equal(t, 20, report.Culture.Scores["innovation"])
	assert.Equal(t, 20, report.Culture.Scores["collaboration"])
	assert.Equal(t, "innovation", report.Culture.DominantCulture)
}

func TestEngineMatchEmptyInputs(t *testing.T) {
	engine, err := NewEngine(WithClock(fixedNow))
	require.NoError(t, err)

	report := engine.Match(nil, "")

	assert.Equal(t, 0, report.Categories[CategorySkills])
	assert.Equal(t, 30, report.Categories[CategoryExperience])
	assert.Equal(t, 0, report.Categories[CategorySector])
	assert.Equal(t, 40, report.Categories[CategoryEducation])
	// 0 + 10.5 + 0 + 4
	assert.Equal(t, 14, report.Score)
	assert.Equal(t, "généraliste", report.Sector.DetectedSector)
	assert.Empty(t, report.SkillGaps.RequiredSkills)
}

func TestEngineIsDeterministicAcrossGoroutines(t *testing.T) {
	engine, err := NewEngine(WithClock(fixedNow))
	require.NoError(t, err)

	job := profile.JobDescription("Senior data engineer, finance et audit, SQL")
	want := engine.Match(candidate(), job)

	var wg sync.WaitGroup
	results := make([]*Report, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.Match(candidate(), job)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestEngineLogsSteps(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	engine, err := NewEngine(WithClock(fixedNow), WithLogger(zap.New(core)))
	require.NoError(t, err)

	engine.Match(candidate(), "Python")

	steps := observed.FilterMessage("scoring step").All()
	require.Len(t, steps, 4)
	assert.Equal(t, string(CategorySkills), steps[0].ContextMap()["name"])
	assert.Equal(t, string(CategoryEducation), steps[3].ContextMap()["name"])
}

func TestNewEngineRejectsBadWeights(t *testing.T) {
	_, err := NewEngine(WithWeights(Weights{Skills: 50, Experience: 50, Sector: 50}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 100")
}

func TestTablesFrom(t *testing.T) {
	tables, err := TablesFrom(map[string]any{
		"sectors": []any{
			map[string]any{"name": "santé", "keywords": []any{"hôpital", "soins"}},
		},
		"no-education-score": 35,
	})
	require.NoError(t, err)

	require.Len(t, tables.Sectors, 1)
	assert.Equal(t, "santé", tables.Sectors[0].Name)
	assert.Equal(t, 35, tables.NoEducationScore)
	// untouched keys keep defaults
	assert.Equal(t, DefaultTables().Degrees, tables.Degrees)

	engine, err := NewEngine(WithTables(tables), WithClock(fixedNow))
	require.NoError(t, err)

	report := engine.Match(&profile.CandidateProfile{
		Experiences: []profile.Experience{{Position: "Infirmier", Description: "soins intensifs"}},
	}, "Poste à l'hôpital")
	assert.Equal(t, "santé", report.Sector.DetectedSector)
	assert.Equal(t, 100, report.Categories[CategorySector])
	assert.Equal(t, 35, report.Categories[CategoryEducation])
}

func TestTablesFromRejectsUnknownKeys(t *testing.T) {
	_, err := TablesFrom(map[string]any{"sectorz": []any{}})
	require.Error(t, err)
}

func TestTablesFromRejectsUnknownAdviceCategory(t *testing.T) {
	_, err := TablesFrom(map[string]any{
		"advice": []any{map[string]any{"category": "luck", "below": 10, "message": "be lucky"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "luck")
}

func TestDefaultTablesAreIndependentCopies(t *testing.T) {
	a := DefaultTables()
	a.Sectors[0].Name = "mutated"

	assert.Equal(t, "tech", DefaultTables().Sectors[0].Name)
}
