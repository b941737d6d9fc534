package suggest

import (
	"sort"
	"strings"
)

// Rank orders suggestions by descending score, breaking ties by ascending
// case-folded meal name (then ID) so equal-scoring results always render
// in the same order across runs. The output is capped at limit entries;
// limit <= 0 means no cap. The input slice is not modified.
func Rank(suggestions []Suggestion, limit int) []Suggestion {
	ranked := make([]Suggestion, len(suggestions))
	copy(ranked, suggestions)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		ni := strings.ToLower(ranked[i].Meal.Name)
		nj := strings.ToLower(ranked[j].Meal.Name)
		if ni != nj {
			return ni < nj
		}
		return ranked[i].Meal.ID < ranked[j].Meal.ID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
