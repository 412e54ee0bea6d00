package matching

import (
	"fmt"

	"scholarship-workers/internal/models"
)

const FallbackRecommendation = "Complete your profile to unlock more scholarship matches"

var strengthTags = []string{"STEM", "merit"}

// Summarize turns ranked matches into short hints. Each rule adds at most
// one line and the rules always run in the same order.
func Summarize(ranked []models.MatchResult) []string {
	if len(ranked) == 0 {
		return []string{FallbackRecommendation}
	}

	top := ranked[0]
	out := []string{fmt.Sprintf("Top match: %s (%d%% match)", top.Listing.Title, top.Score)}

	var local, strengths, lowComp int
	for i := range ranked {
		l := &ranked[i].Listing
		if l.IsLocal {
			local++
		}
		if hasStrengthTag(l) {
			strengths++
		}
		if l.Competitiveness == models.CompetitivenessLow {
			lowComp++
		}
	}

	if local > 0 {
		out = append(out, fmt.Sprintf("Found %d local scholarship(s) with better odds", local))
	}
	if strengths > 0 {
		out = append(out, fmt.Sprintf("%d scholarship(s) match your academic strengths (STEM or merit)", strengths))
	}
	if lowComp > 0 {
		out = append(out, fmt.Sprintf("%d scholarship(s) have low competition", lowComp))
	}
	return out
}

func hasStrengthTag(l *models.ScholarshipListing) bool {
	for _, tag := range strengthTags {
		if l.HasTag(tag) {
			return true
		}
	}
	return false
}
