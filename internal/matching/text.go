package matching

import "strings"

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// containsFold reports whether needle occurs in haystack, ignoring case.
// Blank needles never match.
func containsFold(haystack, needle string) bool {
	n := normalize(needle)
	if n == "" {
		return false
	}
	return strings.Contains(normalize(haystack), n)
}

// equalFoldAny reports whether v equals any candidate, ignoring case and
// surrounding space.
func equalFoldAny(v string, candidates []string) bool {
	v = normalize(v)
	if v == "" {
		return false
	}
	for _, c := range candidates {
		if normalize(c) == v {
			return true
		}
	}
	return false
}

// majorsOverlap matches majors in either direction, so "Computer Science"
// matches "Computer Science & Engineering" and "Science".
func majorsOverlap(intended, listed []string) bool {
	for _, m := range intended {
		for _, l := range listed {
			if containsFold(m, l) || containsFold(l, m) {
				return true
			}
		}
	}
	return false
}

// activitiesOverlap reports whether any free-text activity contains a
// required activity tag.
func activitiesOverlap(activities, required []string) bool {
	for _, a := range activities {
		for _, tag := range required {
			if containsFold(a, tag) {
				return true
			}
		}
	}
	return false
}

func hasAny(set []string) bool {
	for _, s := range set {
		if normalize(s) == "any" {
			return true
		}
	}
	return false
}
