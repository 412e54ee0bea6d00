// internal/workers/scholarship/check-eligibility/handler_test.go
package checkeligibility

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func testProfile() *models.StudentProfile {
	return &models.StudentProfile{
		ID:             "stu-1",
		GPA:            floatPtr(3.6),
		IntendedMajors: []string{"Biology"},
		IncomeBand:     models.IncomeBand25kTo50k,
		State:          "TX",
	}
}

func testScholarship() models.ScholarshipListing {
	return models.ScholarshipListing{
		ID:       "sch-bio",
		Title:    "Life Sciences Scholars",
		Amount:   2500,
		Deadline: "2030-05-01",
		GPAMin:   floatPtr(3.5),
		Majors:   []string{"Biology", "Chemistry"},
	}
}

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(p *models.StudentProfile, l *models.ScholarshipListing)
		eligible   bool
		failedRule string
	}{
		{
			name:     "eligible",
			mutate:   func(*models.StudentProfile, *models.ScholarshipListing) {},
			eligible: true,
		},
		{
			name:       "gpa below minimum",
			mutate:     func(p *models.StudentProfile, _ *models.ScholarshipListing) { p.GPA = floatPtr(3.2) },
			failedRule: string(matching.RuleGPA),
		},
		{
			name:       "major mismatch",
			mutate:     func(p *models.StudentProfile, _ *models.ScholarshipListing) { p.IntendedMajors = []string{"History"} },
			failedRule: string(matching.RuleMajor),
		},
		{
			name:       "state restricted",
			mutate:     func(_ *models.StudentProfile, l *models.ScholarshipListing) { l.States = []string{"CA"} },
			failedRule: string(matching.RuleState),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, l := testProfile(), testScholarship()
			tt.mutate(p, &l)

			out, err := newTestHandler(t).Execute(context.Background(), &Input{StudentProfile: p, Scholarship: l})
			require.NoError(t, err)
			assert.Equal(t, "sch-bio", out.ScholarshipID)
			assert.Equal(t, tt.eligible, out.Eligible)
			assert.Equal(t, tt.failedRule, out.FailedRule)
		})
	}
}

func TestHandler_Execute_MissingProfile(t *testing.T) {
	_, err := newTestHandler(t).Execute(context.Background(), &Input{Scholarship: testScholarship()})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrProfileRequired))
}

func TestHandler_Execute_InvalidListing(t *testing.T) {
	l := testScholarship()
	l.Deadline = "soon"

	_, err := newTestHandler(t).Execute(context.Background(), &Input{StudentProfile: testProfile(), Scholarship: l})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidListingData))
}

func TestInput_Unmarshal(t *testing.T) {
	raw := `{
		"studentProfile": {"id": "stu-1", "gpa": 3.9, "intendedMajors": ["Biology"], "householdIncomeBand": "under_25k"},
		"scholarship": {"id": "sch-1", "title": "Award", "amount": 1000, "deadline": "2030-01-01", "gpaMin": 3.0}
	}`

	var in Input
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	require.NotNil(t, in.StudentProfile)
	assert.Equal(t, models.IncomeBandUnder25k, in.StudentProfile.IncomeBand)
	assert.Equal(t, 3.0, *in.Scholarship.GPAMin)
}
