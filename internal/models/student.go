// internal/models/student.go
package models

import "strings"

// IncomeBand is the household income bucket a student selects during onboarding.
type IncomeBand string

const (
	IncomeBandUnder25k   IncomeBand = "under_25k"
	IncomeBand25kTo50k   IncomeBand = "25k_50k"
	IncomeBand50kTo75k   IncomeBand = "50k_75k"
	IncomeBand75kTo100k  IncomeBand = "75k_100k"
	IncomeBand100kTo150k IncomeBand = "100k_150k"
	IncomeBandOver150k   IncomeBand = "over_150k"
)

var incomeEstimates = map[IncomeBand]int{
	IncomeBandUnder25k:   12500,
	IncomeBand25kTo50k:   37500,
	IncomeBand50kTo75k:   62500,
	IncomeBand75kTo100k:  87500,
	IncomeBand100kTo150k: 125000,
	IncomeBandOver150k:   175000,
}

// EstimatedIncome returns the midpoint used when comparing a band against
// listing income bounds. Unknown bands have no estimate.
func (b IncomeBand) EstimatedIncome() (int, bool) {
	v, ok := incomeEstimates[b]
	return v, ok
}

type StudentProfile struct {
	ID               string     `json:"id"`
	GPA              *float64   `json:"gpa,omitempty" validate:"omitempty,gte=0,lte=4"`
	SATScore         *int       `json:"satScore,omitempty" validate:"omitempty,gte=400,lte=1600"`
	ACTScore         *int       `json:"actScore,omitempty" validate:"omitempty,gte=1,lte=36"`
	IntendedMajors   []string   `json:"intendedMajors"`
	Ethnicity        string     `json:"ethnicity,omitempty"`
	Gender           string     `json:"gender,omitempty"`
	IncomeBand       IncomeBand `json:"householdIncomeBand,omitempty" validate:"omitempty,oneof=under_25k 25k_50k 50k_75k 75k_100k 100k_150k over_150k"`
	NeedBasedAid     bool       `json:"needBasedAid"`
	Extracurriculars []string   `json:"extracurriculars"`
	State            string     `json:"state,omitempty"`
	GradeLevel       *int       `json:"gradeLevel,omitempty" validate:"omitempty,gte=9,lte=12"`
}

func (p *StudentProfile) GPAValue() (float64, bool) {
	if p.GPA == nil {
		return 0, false
	}
	return *p.GPA, true
}

func (p *StudentProfile) SATValue() (int, bool) {
	if p.SATScore == nil {
		return 0, false
	}
	return *p.SATScore, true
}

func (p *StudentProfile) ACTValue() (int, bool) {
	if p.ACTScore == nil {
		return 0, false
	}
	return *p.ACTScore, true
}

func (p *StudentProfile) GradeLevelValue() (int, bool) {
	if p.GradeLevel == nil {
		return 0, false
	}
	return *p.GradeLevel, true
}

func (p *StudentProfile) EstimatedIncome() (int, bool) {
	return p.IncomeBand.EstimatedIncome()
}

// DemographicTags returns the non-empty demographic attributes, trimmed.
func (p *StudentProfile) DemographicTags() []string {
	var tags []string
	for _, v := range []string{p.Ethnicity, p.Gender} {
		if v = strings.TrimSpace(v); v != "" {
			tags = append(tags, v)
		}
	}
	return tags
}
