package feed

import "github.com/agnivade/levenshtein"

// maxSuggestDistance bounds how far an unknown key may be from a canonical
// field before it stops being a plausible typo.
const maxSuggestDistance = 2

// Suggest returns the canonical field closest to key when the edit distance
// is small enough to look like a typo, preferring the earliest candidate on
// ties so suggestions are deterministic.
func Suggest(key string, vocabulary []string) (string, bool) {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, candidate := range vocabulary {
		if candidate == key {
			continue
		}
		if d := levenshtein.ComputeDistance(key, candidate); d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best, bestDist <= maxSuggestDistance
}
