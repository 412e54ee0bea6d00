// internal/workers/scholarship/calculate-match-score/models.go
package calculatematchscore

import "scholarship-workers/internal/models"

type Input struct {
	StudentID      string                    `json:"studentId"`
	StudentProfile *models.StudentProfile    `json:"studentProfile,omitempty"`
	Scholarship    models.ScholarshipListing `json:"scholarship"`
}

// Output carries a zero score and no reasons for an ineligible listing.
type Output struct {
	ScholarshipID string   `json:"scholarshipId"`
	Eligible      bool     `json:"eligible"`
	FailedRule    string   `json:"failedRule,omitempty"`
	MatchScore    int      `json:"matchScore"`
	Reasons       []string `json:"reasons"`
}
