package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scholarship-workers/internal/models"
)

func TestCheckEligibility(t *testing.T) {
	tests := []struct {
		name     string
		profile  func(p *models.StudentProfile)
		listing  func(l *models.ScholarshipListing)
		eligible bool
		rule     Rule
	}{
		{
			name:     "unrestricted listing",
			eligible: true,
		},
		{
			name:     "gpa meets minimum",
			listing:  func(l *models.ScholarshipListing) { l.GPAMin = floatPtr(3.8) },
			eligible: true,
		},
		{
			name:    "gpa below minimum",
			listing: func(l *models.ScholarshipListing) { l.GPAMin = floatPtr(3.9) },
			rule:    RuleGPA,
		},
		{
			name:    "missing gpa fails gpa-gated listing",
			profile: func(p *models.StudentProfile) { p.GPA = nil },
			listing: func(l *models.ScholarshipListing) { l.GPAMin = floatPtr(2.0) },
			rule:    RuleGPA,
		},
		{
			name:    "no test score fails score-gated listing",
			listing: func(l *models.ScholarshipListing) { l.SATMin = intPtr(1200) },
			rule:    RuleTestScore,
		},
		{
			name:    "sat below floor",
			profile: func(p *models.StudentProfile) { p.SATScore = intPtr(1100) },
			listing: func(l *models.ScholarshipListing) { l.SATMin = intPtr(1200) },
			rule:    RuleTestScore,
		},
		{
			name:     "act satisfies either floor",
			profile:  func(p *models.StudentProfile) { p.ACTScore = intPtr(30) },
			listing:  func(l *models.ScholarshipListing) { l.SATMin, l.ACTMin = intPtr(1300), intPtr(28) },
			eligible: true,
		},
		{
			name:    "sat present but only act floor set",
			profile: func(p *models.StudentProfile) { p.SATScore = intPtr(1500) },
			listing: func(l *models.ScholarshipListing) { l.ACTMin = intPtr(28) },
			rule:    RuleTestScore,
		},
		{
			name:    "income above max",
			profile: func(p *models.StudentProfile) { p.IncomeBand = models.IncomeBand100kTo150k },
			listing: func(l *models.ScholarshipListing) { l.IncomeMax = intPtr(75000) },
			rule:    RuleIncome,
		},
		{
			name:    "income below min",
			profile: func(p *models.StudentProfile) { p.IncomeBand = models.IncomeBandUnder25k },
			listing: func(l *models.ScholarshipListing) { l.IncomeMin = intPtr(30000) },
			rule:    RuleIncome,
		},
		{
			name:     "unknown income band passes income gate",
			profile:  func(p *models.StudentProfile) { p.IncomeBand = "" },
			listing:  func(l *models.ScholarshipListing) { l.IncomeMax = intPtr(20000) },
			eligible: true,
		},
		{
			name:     "demographic match ignores case",
			profile:  func(p *models.StudentProfile) { p.Ethnicity = "Hispanic" },
			listing:  func(l *models.ScholarshipListing) { l.Demographics = []string{"hispanic", "latino"} },
			eligible: true,
		},
		{
			name:     "gender satisfies demographics",
			profile:  func(p *models.StudentProfile) { p.Gender = "Female" },
			listing:  func(l *models.ScholarshipListing) { l.Demographics = []string{"female"} },
			eligible: true,
		},
		{
			name:    "demographic mismatch",
			profile: func(p *models.StudentProfile) { p.Ethnicity = "Asian" },
			listing: func(l *models.ScholarshipListing) { l.Demographics = []string{"Hispanic"} },
			rule:    RuleDemographics,
		},
		{
			name:     "any sentinel disables demographics",
			listing:  func(l *models.ScholarshipListing) { l.Demographics = []string{"Hispanic", "Any"} },
			eligible: true,
		},
		{
			name:     "listed major contains intended major",
			listing:  func(l *models.ScholarshipListing) { l.Majors = []string{"computer science and engineering"} },
			eligible: true,
		},
		{
			name:     "intended major contains listed major",
			listing:  func(l *models.ScholarshipListing) { l.Majors = []string{"Science"} },
			eligible: true,
		},
		{
			name:    "major mismatch",
			listing: func(l *models.ScholarshipListing) { l.Majors = []string{"Nursing", "Education"} },
			rule:    RuleMajor,
		},
		{
			name:    "no intended majors fails major restriction",
			profile: func(p *models.StudentProfile) { p.IntendedMajors = nil },
			listing: func(l *models.ScholarshipListing) { l.Majors = []string{"Nursing"} },
			rule:    RuleMajor,
		},
		{
			name:     "activity token found in free text",
			listing:  func(l *models.ScholarshipListing) { l.RequiredActivities = []string{"Robotics"} },
			eligible: true,
		},
		{
			name:    "missing activity",
			listing: func(l *models.ScholarshipListing) { l.RequiredActivities = []string{"debate"} },
			rule:    RuleActivities,
		},
		{
			name:     "state allowed",
			listing:  func(l *models.ScholarshipListing) { l.States = []string{"ca", "OR"} },
			eligible: true,
		},
		{
			name:    "state not allowed",
			listing: func(l *models.ScholarshipListing) { l.States = []string{"TX"} },
			rule:    RuleState,
		},
		{
			name: "first failing rule reported",
			listing: func(l *models.ScholarshipListing) {
				l.GPAMin = floatPtr(4.0)
				l.States = []string{"TX"}
			},
			rule: RuleGPA,
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

			ok, rule := CheckEligibility(p, &l)
			assert.Equal(t, tt.eligible, ok)
			assert.Equal(t, tt.rule, rule)
			assert.Equal(t, tt.eligible, IsEligible(p, &l))
		})
	}
}

func TestIsEligible_NilProfile(t *testing.T) {
	l := listing("sch-1")
	ok, rule := CheckEligibility(nil, &l)
	assert.False(t, ok)
	assert.Equal(t, RuleProfile, rule)
}

func TestIsEligible_MonotonicInGPA(t *testing.T) {
	listings := []models.ScholarshipListing{
		listing("a", func(l *models.ScholarshipListing) { l.GPAMin = floatPtr(3.0) }),
		listing("b", func(l *models.ScholarshipListing) { l.GPAMin = floatPtr(3.5); l.Majors = []string{"Computer Science"} }),
		listing("c", func(l *models.ScholarshipListing) { l.GPAMin = floatPtr(2.5); l.IncomeMax = intPtr(80000) }),
		listing("d", func(l *models.ScholarshipListing) { l.States = []string{"CA"} }),
		listing("e", func(l *models.ScholarshipListing) { l.GPAMin = floatPtr(3.2); l.States = []string{"NY"} }),
	}

	for _, l := range listings {
		t.Run(l.ID, func(t *testing.T) {
			wasEligible := false
			for tenths := 0; tenths <= 40; tenths++ {
				p := baseProfile()
				p.GPA = floatPtr(float64(tenths) / 10)

				eligible := IsEligible(p, &l)
				if wasEligible {
					assert.True(t, eligible, "raising gpa to %.1f made profile ineligible", *p.GPA)
				}
				wasEligible = wasEligible || eligible
			}
		})
	}
}

func TestIsEligible_Scenario2LowGPAExcluded(t *testing.T) {
	p := baseProfile()
	p.GPA = floatPtr(2.0)
	l := listing("gpa-gated", func(l *models.ScholarshipListing) {
		l.GPAMin = floatPtr(3.0)
		l.Majors = []string{"Computer Science"}
		l.States = []string{"CA"}
		l.IsLocal = true
	})

	assert.False(t, IsEligible(p, &l))
}
