// internal/workers/scholarship/check-eligibility/models.go
package checkeligibility

import "scholarship-workers/internal/models"

type Input struct {
	StudentProfile *models.StudentProfile    `json:"studentProfile"`
	Scholarship    models.ScholarshipListing `json:"scholarship"`
}

type Output struct {
	ScholarshipID string `json:"scholarshipId"`
	Eligible      bool   `json:"eligible"`
	FailedRule    string `json:"failedRule,omitempty"`
}
