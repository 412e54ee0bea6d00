// internal/workers/scholarship/apply-match-ranking/models.go
package applymatchranking

import "scholarship-workers/internal/models"

// Input joins the listings a process evaluated with the per-listing results
// of the scoring task. MaxResults overrides the configured cap when set.
type Input struct {
	Scholarships []models.ScholarshipListing `json:"scholarships"`
	Scores       []ScoreResult               `json:"scores"`
	MaxResults   int                         `json:"maxResults,omitempty"`
}

// ScoreResult is the output of calculate-scholarship-match-score.
type ScoreResult struct {
	ScholarshipID string   `json:"scholarshipId"`
	Eligible      bool     `json:"eligible"`
	MatchScore    int      `json:"matchScore"`
	Reasons       []string `json:"reasons"`
}

type Output struct {
	RankedMatches   []models.MatchResult `json:"rankedMatches"`
	Recommendations []string             `json:"recommendations"`
	TotalMatches    int                  `json:"totalMatches"`
}
