package matching

import "scholarship-workers/internal/models"

// ===== Test Helper Functions =====

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func baseProfile() *models.StudentProfile {
	return &models.StudentProfile{
		ID:               "stu-100",
		GPA:              floatPtr(3.8),
		IntendedMajors:   []string{"Computer Science"},
		IncomeBand:       models.IncomeBand50kTo75k,
		State:            "CA",
		Extracurriculars: []string{"Varsity robotics team captain", "Food bank volunteer"},
	}
}

func listing(id string, mutate ...func(*models.ScholarshipListing)) models.ScholarshipListing {
	l := models.ScholarshipListing{
		ID:              id,
		Title:           "Scholarship " + id,
		Provider:        "Provider " + id,
		Amount:          1000,
		Deadline:        "2030-06-01",
		Competitiveness: models.CompetitivenessHigh,
	}
	for _, m := range mutate {
		m(&l)
	}
	return l
}

func result(id string, score int, comp models.Competitiveness) models.MatchResult {
	return models.MatchResult{
		Listing: listing(id, func(l *models.ScholarshipListing) { l.Competitiveness = comp }),
		Score:   score,
	}
}

func ids(matches []models.MatchResult) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Listing.ID
	}
	return out
}
