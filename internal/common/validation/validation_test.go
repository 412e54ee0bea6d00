package validation

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/models"
)

func validListing() models.ScholarshipListing {
	return models.ScholarshipListing{
		ID:              "sch-1",
		Title:           "Future Engineers Award",
		Provider:        "State Tech Foundation",
		Amount:          5000,
		Deadline:        "2030-03-01",
		Competitiveness: models.CompetitivenessMedium,
	}
}

func TestValidateListing(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(l *models.ScholarshipListing)
		wantErr bool
		field   string
	}{
		{name: "valid listing", mutate: func(l *models.ScholarshipListing) {}},
		{name: "rfc3339 deadline accepted", mutate: func(l *models.ScholarshipListing) { l.Deadline = "2030-03-01T00:00:00Z" }},
		{name: "competitiveness omitted", mutate: func(l *models.ScholarshipListing) { l.Competitiveness = "" }},
		{name: "missing title", mutate: func(l *models.ScholarshipListing) { l.Title = "" }, wantErr: true, field: "title"},
		{name: "blank title", mutate: func(l *models.ScholarshipListing) { l.Title = "   " }, wantErr: true, field: "title"},
		{name: "zero amount", mutate: func(l *models.ScholarshipListing) { l.Amount = 0 }, wantErr: true, field: "amount"},
		{name: "missing deadline", mutate: func(l *models.ScholarshipListing) { l.Deadline = "" }, wantErr: true, field: "deadline"},
		{name: "malformed deadline", mutate: func(l *models.ScholarshipListing) { l.Deadline = "March 1st" }, wantErr: true, field: "deadline"},
		{name: "impossible date", mutate: func(l *models.ScholarshipListing) { l.Deadline = "2030-02-30" }, wantErr: true, field: "deadline"},
		{name: "unknown competitiveness", mutate: func(l *models.ScholarshipListing) { l.Competitiveness = "brutal" }, wantErr: true, field: "competitiveness"},
		{
			name: "inverted income bounds",
			mutate: func(l *models.ScholarshipListing) {
				lo, hi := 90000, 40000
				l.IncomeMin, l.IncomeMax = &lo, &hi
			},
			wantErr: true,
			field:   "incomeMin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validListing()
			tt.mutate(&l)

			err := ValidateListing(l)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrInvalidListingData))

			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Contains(t, stdErr.Details, tt.field)
			assert.Equal(t, "sch-1", stdErr.Metadata["listingId"])
			assert.False(t, stdErr.Retryable)
		})
	}
}

func TestValidateProfile(t *testing.T) {
	gpa := func(v float64) *float64 { return &v }
	num := func(v int) *int { return &v }

	t.Run("nil profile is required error", func(t *testing.T) {
		err := ValidateProfile(nil)
		assert.True(t, stderrors.Is(err, errors.ErrProfileRequired))
	})

	t.Run("empty profile is valid", func(t *testing.T) {
		assert.NoError(t, ValidateProfile(&models.StudentProfile{ID: "stu-1"}))
	})

	t.Run("complete profile is valid", func(t *testing.T) {
		p := &models.StudentProfile{
			ID:         "stu-1",
			GPA:        gpa(3.8),
			SATScore:   num(1450),
			ACTScore:   num(32),
			IncomeBand: models.IncomeBand25kTo50k,
			GradeLevel: num(11),
		}
		assert.NoError(t, ValidateProfile(p))
	})

	invalid := []struct {
		name    string
		profile *models.StudentProfile
		field   string
	}{
		{"gpa above 4", &models.StudentProfile{GPA: gpa(4.3)}, "GPA"},
		{"sat below floor", &models.StudentProfile{SATScore: num(200)}, "SATScore"},
		{"act above ceiling", &models.StudentProfile{ACTScore: num(40)}, "ACTScore"},
		{"grade out of range", &models.StudentProfile{GradeLevel: num(7)}, "GradeLevel"},
		{"unknown income band", &models.StudentProfile{IncomeBand: "lots"}, "IncomeBand"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfile(tt.profile)
			require.Error(t, err)
			code, ok := errors.CodeOf(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeProfileInvalid, code)
			assert.Contains(t, err.(*errors.StandardError).Details, tt.field)
		})
	}
}
