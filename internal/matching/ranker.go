package matching

import (
	"sort"

	"scholarship-workers/internal/models"
)

// NearTieWindow is the score gap below which competitiveness decides order.
const NearTieWindow = 5

// Rank orders matches by score, highest first. Within a near tie the less
// competitive listing goes first. Equal score and competitiveness keep input
// order. The input slice is not modified.
func Rank(matches []models.MatchResult) []models.MatchResult {
	ranked := make([]models.MatchResult, len(matches))
	copy(ranked, matches)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	// Neighbours swap only on a strict competitiveness difference, so equal
	// keys never trade places. Each swap removes one inversion.
	for swapped := true; swapped; {
		swapped = false
		for i := 0; i+1 < len(ranked); i++ {
			if promote(&ranked[i], &ranked[i+1]) {
				ranked[i], ranked[i+1] = ranked[i+1], ranked[i]
				swapped = true
			}
		}
	}
	return ranked
}

// promote reports whether next should move ahead of cur.
func promote(cur, next *models.MatchResult) bool {
	diff := cur.Score - next.Score
	if diff < 0 {
		diff = -diff
	}
	return diff < NearTieWindow &&
		next.Listing.Competitiveness.Rank() < cur.Listing.Competitiveness.Rank()
}
