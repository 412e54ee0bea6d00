package matching

import "scholarship-workers/internal/models"

const (
	MaxScore = 100

	PointsGPA           = 25
	PointsGradeLevel    = 15
	PointsMajor         = 20
	PointsFinancialNeed = 15
	PointsDemographic   = 10
	PointsActivities    = 10
	PointsLowComp       = 10
	PointsMediumComp    = 5
	PointsLocal         = 8
)

// Reason texts are shown to students verbatim.
const (
	ReasonGPA           = "Meets the minimum GPA requirement"
	ReasonGradeLevel    = "Open to students in your grade"
	ReasonMajor         = "Matches your intended major"
	ReasonFinancialNeed = "Fits your financial need profile"
	ReasonDemographic   = "Matches your background"
	ReasonActivities    = "Aligns with your extracurricular activities"
	ReasonLowComp       = "Lower competition gives you better odds"
	ReasonMediumComp    = "Moderate competition"
	ReasonLocal         = "Local scholarship"
)

const needBasedTag = "need-based"

type criterion struct {
	points  int
	reason  string
	applies func(*models.StudentProfile, *models.ScholarshipListing) bool
}

// Reasons come out in this order.
var criteria = []criterion{
	{PointsGPA, ReasonGPA, gpaCriterion},
	{PointsGradeLevel, ReasonGradeLevel, gradeLevelCriterion},
	{PointsMajor, ReasonMajor, majorCriterion},
	{PointsFinancialNeed, ReasonFinancialNeed, financialNeedCriterion},
	{PointsDemographic, ReasonDemographic, demographicCriterion},
	{PointsActivities, ReasonActivities, activitiesCriterion},
	{PointsLowComp, ReasonLowComp, func(_ *models.StudentProfile, l *models.ScholarshipListing) bool {
		return l.Competitiveness == models.CompetitivenessLow
	}},
	{PointsMediumComp, ReasonMediumComp, func(_ *models.StudentProfile, l *models.ScholarshipListing) bool {
		return l.Competitiveness == models.CompetitivenessMedium
	}},
	{PointsLocal, ReasonLocal, func(_ *models.StudentProfile, l *models.ScholarshipListing) bool {
		return l.IsLocal
	}},
}

// Score adds up the points of every satisfied criterion and clamps the
// total to [0, MaxScore]. Criteria the listing does not define add nothing.
func Score(profile *models.StudentProfile, listing *models.ScholarshipListing) (int, []string) {
	reasons := []string{}
	if profile == nil || listing == nil {
		return 0, reasons
	}

	total := 0
	for _, c := range criteria {
		if c.applies(profile, listing) {
			total += c.points
			reasons = append(reasons, c.reason)
		}
	}
	return clamp(total, 0, MaxScore), reasons
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func gpaCriterion(p *models.StudentProfile, l *models.ScholarshipListing) bool {
	return l.GPAMin != nil && meetsGPA(p, l)
}

func gradeLevelCriterion(p *models.StudentProfile, l *models.ScholarshipListing) bool {
	if len(l.GradeLevels) == 0 {
		return false
	}
	grade, ok := p.GradeLevelValue()
	if !ok {
		return false
	}
	for _, g := range l.GradeLevels {
		if g == grade {
			return true
		}
	}
	return false
}

func majorCriterion(p *models.StudentProfile, l *models.ScholarshipListing) bool {
	return len(l.Majors) > 0 && majorsOverlap(p.IntendedMajors, l.Majors)
}

// financialNeedCriterion matches an income bound containing the band
// estimate, or a need-based listing for a student who asked for aid.
func financialNeedCriterion(p *models.StudentProfile, l *models.ScholarshipListing) bool {
	if l.IncomeMin != nil || l.IncomeMax != nil {
		if _, known := p.EstimatedIncome(); known && meetsIncome(p, l) {
			return true
		}
	}
	return p.NeedBasedAid && l.HasTag(needBasedTag)
}

func demographicCriterion(p *models.StudentProfile, l *models.ScholarshipListing) bool {
	return len(l.Demographics) > 0 && meetsDemographics(p, l)
}

func activitiesCriterion(p *models.StudentProfile, l *models.ScholarshipListing) bool {
	return len(l.RequiredActivities) > 0 && activitiesOverlap(p.Extracurriculars, l.RequiredActivities)
}
