// Package matching filters, scores, ranks and summarizes scholarship listings
// for a single student profile. Everything here is pure; callers own I/O.
package matching

import "scholarship-workers/internal/models"

// Rule names the eligibility check a listing failed.
type Rule string

const (
	RuleNone         Rule = ""
	RuleProfile      Rule = "profile"
	RuleGPA          Rule = "gpa"
	RuleTestScore    Rule = "test_score"
	RuleIncome       Rule = "income"
	RuleDemographics Rule = "demographics"
	RuleMajor        Rule = "major"
	RuleActivities   Rule = "activities"
	RuleState        Rule = "state"
)

// CheckEligibility applies the hard requirements of a listing in a fixed
// order and returns the first rule that fails.
func CheckEligibility(profile *models.StudentProfile, listing *models.ScholarshipListing) (bool, Rule) {
	if profile == nil || listing == nil {
		return false, RuleProfile
	}

	checks := []struct {
		rule Rule
		pass func(*models.StudentProfile, *models.ScholarshipListing) bool
	}{
		{RuleGPA, meetsGPA},
		{RuleTestScore, meetsTestScore},
		{RuleIncome, meetsIncome},
		{RuleDemographics, meetsDemographics},
		{RuleMajor, meetsMajor},
		{RuleActivities, meetsActivities},
		{RuleState, meetsState},
	}
	for _, c := range checks {
		if !c.pass(profile, listing) {
			return false, c.rule
		}
	}
	return true, RuleNone
}

func IsEligible(profile *models.StudentProfile, listing *models.ScholarshipListing) bool {
	ok, _ := CheckEligibility(profile, listing)
	return ok
}

func meetsGPA(p *models.StudentProfile, l *models.ScholarshipListing) bool {
	if l.GPAMin == nil {
		return true
	}
	gpa, ok := p.GPAValue()
	return ok && gpa >= *l.GPAMin
}

// meetsTestScore passes when any score floor the listing sets is met.
func meetsTestScore(p *models.StudentProfile, l *models.ScholarshipListing) bool {
	if l.SATMin == nil && l.ACTMin == nil {
		return true
	}
	if l.SATMin != nil {
		if sat, ok := p.SATValue(); ok && sat >= *l.SATMin {
			return true
		}
	}
	if l.ACTMin != nil {
		if act, ok := p.ACTValue(); ok && act >= *l.ACTMin {
			return true
		}
	}
	return false
}

// meetsIncome compares the band midpoint to the bounds. A profile without a
// known band cannot be shown to fall outside them.
func meetsIncome(p *models.StudentProfile, l *models.ScholarshipListing) bool {
	income, ok := p.EstimatedIncome()
	if !ok {
		return true
	}
	if l.IncomeMax != nil && income > *l.IncomeMax {
		return false
	}
	if l.IncomeMin != nil && income < *l.IncomeMin {
		return false
	}
	return true
}

func meetsDemographics(p *models.StudentProfile, l *models.ScholarshipListing) bool {
	if len(l.Demographics) == 0 || hasAny(l.Demographics) {
		return true
	}
	for _, tag := range p.DemographicTags() {
		if equalFoldAny(tag, l.Demographics) {
			return true
		}
	}
	return false
}

func meetsMajor(p *models.StudentProfile, l *models.ScholarshipListing) bool {
	if len(l.Majors) == 0 {
		return true
	}
	return majorsOverlap(p.IntendedMajors, l.Majors)
}

func meetsActivities(p *models.StudentProfile, l *models.ScholarshipListing) bool {
	if len(l.RequiredActivities) == 0 {
		return true
	}
	return activitiesOverlap(p.Extracurriculars, l.RequiredActivities)
}

func meetsState(p *models.StudentProfile, l *models.ScholarshipListing) bool {
	if len(l.States) == 0 {
		return true
	}
	return equalFoldAny(p.State, l.States)
}
