package binder

import (
	"slices"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestions caps "did you mean" lists.
const maxSuggestions = 3

// maxEditDistance bounds typo suggestions.
const maxEditDistance = 2

// Suggest returns candidates resembling name, closest first: those that
// contain name as a case-insensitive subsequence, and those within a small
// edit distance.
func Suggest(name string, candidates []string) []string {
	type scored struct {
		target   string
		distance int
	}

	folded := fold(name)

	var hits []scored
	seen := make(map[string]bool)
	for _, r := range fuzzy.RankFindFold(name, candidates) {
		hits = append(hits, scored{r.Target, fuzzy.LevenshteinDistance(folded, fold(r.Target))})
		seen[r.Target] = true
	}

	for _, c := range candidates {
		if seen[c] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(folded, fold(c)); d <= maxEditDistance {
			hits = append(hits, scored{c, d})
			seen[c] = true
		}
	}

	slices.SortStableFunc(hits, func(a, b scored) int {
		return a.distance - b.distance
	})

	var out []string
	for _, h := range hits {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, h.target)
	}
	return out
}
