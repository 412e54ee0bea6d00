package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scholarship-workers/internal/models"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		profile func(p *models.StudentProfile)
		listing func(l *models.ScholarshipListing)
		score   int
		reasons []string
	}{
		{
			name:    "nothing applicable",
			score:   0,
			reasons: []string{},
		},
		{
			name:    "missing gpaMin gives no gpa points",
			listing: func(l *models.ScholarshipListing) { l.Competitiveness = models.CompetitivenessMedium },
			score:   PointsMediumComp,
			reasons: []string{ReasonMediumComp},
		},
		{
			name: "scenario 1 gpa and major",
			listing: func(l *models.ScholarshipListing) {
				l.GPAMin = floatPtr(3.5)
				l.Majors = []string{"Computer Science", "Engineering"}
				l.Competitiveness = models.CompetitivenessMedium
			},
			score:   PointsGPA + PointsMajor + PointsMediumComp,
			reasons: []string{ReasonGPA, ReasonMajor, ReasonMediumComp},
		},
		{
			name:    "grade level in list",
			profile: func(p *models.StudentProfile) { p.GradeLevel = intPtr(11) },
			listing: func(l *models.ScholarshipListing) { l.GradeLevels = []int{11, 12} },
			score:   PointsGradeLevel,
			reasons: []string{ReasonGradeLevel},
		},
		{
			name:    "grade level not listed",
			profile: func(p *models.StudentProfile) { p.GradeLevel = intPtr(9) },
			listing: func(l *models.ScholarshipListing) { l.GradeLevels = []int{11, 12} },
			score:   0,
			reasons: []string{},
		},
		{
			name:    "income inside listing band",
			listing: func(l *models.ScholarshipListing) { l.IncomeMax = intPtr(80000) },
			score:   PointsFinancialNeed,
			reasons: []string{ReasonFinancialNeed},
		},
		{
			name:    "unknown income band earns no financial points",
			profile: func(p *models.StudentProfile) { p.IncomeBand = "" },
			listing: func(l *models.ScholarshipListing) { l.IncomeMax = intPtr(80000) },
			score:   0,
			reasons: []string{},
		},
		{
			name:    "need-based tag with aid requested",
			profile: func(p *models.StudentProfile) { p.NeedBasedAid = true },
			listing: func(l *models.ScholarshipListing) { l.Tags = []string{"Need-Based"} },
			score:   PointsFinancialNeed,
			reasons: []string{ReasonFinancialNeed},
		},
		{
			name:    "need-based tag without aid requested",
			listing: func(l *models.ScholarshipListing) { l.Tags = []string{"need-based"} },
			score:   0,
			reasons: []string{},
		},
		{
			name:    "any demographic counts as a match",
			listing: func(l *models.ScholarshipListing) { l.Demographics = []string{"any"} },
			score:   PointsDemographic,
			reasons: []string{ReasonDemographic},
		},
		{
			name:    "activity overlap",
			listing: func(l *models.ScholarshipListing) { l.RequiredActivities = []string{"volunteer"} },
			score:   PointsActivities,
			reasons: []string{ReasonActivities},
		},
		{
			name: "low competition and local",
			listing: func(l *models.ScholarshipListing) {
				l.Competitiveness = models.CompetitivenessLow
				l.IsLocal = true
			},
			score:   PointsLowComp + PointsLocal,
			reasons: []string{ReasonLowComp, ReasonLocal},
		},
		{
			name:    "unknown competitiveness earns nothing",
			listing: func(l *models.ScholarshipListing) { l.Competitiveness = "" },
			score:   0,
			reasons: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseProfile()
			if tt.profile != nil {
				tt.profile(p)
			}
			l := listing("sch-1")
			if tt.listing != nil {
				tt.listing(&l)
			}

			score, reasons := Score(p, &l)
			assert.Equal(t, tt.score, score)
			assert.Equal(t, tt.reasons, reasons)
		})
	}
}

func TestScore_ClampedToMax(t *testing.T) {
	p := baseProfile()
	p.GradeLevel = intPtr(12)
	p.Ethnicity = "Hispanic"

	l := listing("everything", func(l *models.ScholarshipListing) {
		l.GPAMin = floatPtr(3.0)
		l.GradeLevels = []int{12}
		l.Majors = []string{"Computer Science"}
		l.IncomeMax = intPtr(100000)
		l.Demographics = []string{"Hispanic"}
		l.RequiredActivities = []string{"robotics"}
		l.Competitiveness = models.CompetitivenessLow
		l.IsLocal = true
	})

	score, reasons := Score(p, &l)
	assert.Equal(t, MaxScore, score)
	assert.Len(t, reasons, 8)
}

func TestScore_Bounded(t *testing.T) {
	comps := []models.Competitiveness{
		models.CompetitivenessLow, models.CompetitivenessMedium,
		models.CompetitivenessHigh, models.CompetitivenessExtremelyHigh, "",
	}
	bands := []models.IncomeBand{"", models.IncomeBandUnder25k, models.IncomeBandOver150k}

	for _, comp := range comps {
		for _, band := range bands {
			for _, local := range []bool{true, false} {
				for _, gpaMin := range []*float64{nil, floatPtr(2.0), floatPtr(3.9)} {
					p := baseProfile()
					p.IncomeBand = band
					p.NeedBasedAid = true
					p.GradeLevel = intPtr(10)

					l := listing("x", func(l *models.ScholarshipListing) {
						l.Competitiveness = comp
						l.IsLocal = local
						l.GPAMin = gpaMin
						l.GradeLevels = []int{10}
						l.Majors = []string{"Science"}
						l.Tags = []string{"need-based"}
						l.Demographics = []string{"any"}
						l.RequiredActivities = []string{"food bank"}
						l.IncomeMin = intPtr(0)
					})

					score, reasons := Score(p, &l)
					assert.GreaterOrEqual(t, score, 0)
					assert.LessOrEqual(t, score, MaxScore)
					assert.NotNil(t, reasons)
				}
			}
		}
	}
}

func TestScore_NilInputs(t *testing.T) {
	l := listing("sch-1")
	score, reasons := Score(nil, &l)
	assert.Zero(t, score)
	assert.Empty(t, reasons)
}
