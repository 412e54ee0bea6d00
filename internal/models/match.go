// internal/models/match.go
package models

import "time"

type MatchResult struct {
	Listing ScholarshipListing `json:"listing"`
	Score   int                `json:"score"`
	Reasons []string           `json:"reasons"`
}

type SkippedListing struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type MatchOutput struct {
	RunID           string           `json:"runId"`
	StudentID       string           `json:"studentId,omitempty"`
	Matches         []MatchResult    `json:"matches"`
	Recommendations []string         `json:"recommendations"`
	Evaluated       int              `json:"evaluated"`
	Eligible        int              `json:"eligible"`
	Skipped         int              `json:"skipped"`
	SkippedListings []SkippedListing `json:"skippedListings,omitempty"`
	ComputedAt      time.Time        `json:"computedAt"`
}
