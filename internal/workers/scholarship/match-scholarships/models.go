// internal/workers/scholarship/match-scholarships/models.go
package matchscholarships

import (
	"time"

	"scholarship-workers/internal/models"
)

// Input names the student by ID, by an inline profile, or both. Inline
// profiles are never served from or written to the match cache.
type Input struct {
	StudentID      string                 `json:"studentId"`
	StudentProfile *models.StudentProfile `json:"studentProfile,omitempty"`
	MaxResults     int                    `json:"maxResults,omitempty"`
	IncludeExpired *bool                  `json:"includeExpired,omitempty"`
	Refresh        bool                   `json:"refresh,omitempty"`
}

type Output struct {
	RunID           string                  `json:"runId"`
	StudentID       string                  `json:"studentId"`
	Matches         []models.MatchResult    `json:"matches"`
	Recommendations []string                `json:"recommendations"`
	MatchCount      int                     `json:"matchCount"`
	Evaluated       int                     `json:"evaluated"`
	Eligible        int                     `json:"eligible"`
	Skipped         int                     `json:"skipped"`
	SkippedListings []models.SkippedListing `json:"skippedListings,omitempty"`
	ComputedAt      time.Time               `json:"computedAt"`
	FromCache       bool                    `json:"fromCache"`
}

func newOutput(out *models.MatchOutput, fromCache bool) *Output {
	return &Output{
		RunID:           out.RunID,
		StudentID:       out.StudentID,
		Matches:         out.Matches,
		Recommendations: out.Recommendations,
		MatchCount:      len(out.Matches),
		Evaluated:       out.Evaluated,
		Eligible:        out.Eligible,
		Skipped:         out.Skipped,
		SkippedListings: out.SkippedListings,
		ComputedAt:      out.ComputedAt,
		FromCache:       fromCache,
	}
}
