package suggest

import (
	"strings"

	"meal-suggester/internal/meal"
)

// FilterCandidates narrows the meal library to the candidates eligible for
// scoring under sctx. A candidate is retained iff it is not excluded, its
// name contains the search string case-insensitively (when one is set),
// and its tag set intersects the selected tags (when any are selected;
// matching any one selected tag qualifies). An empty result is a valid
// output, not an error.
func FilterCandidates(library []meal.Meal, sctx *SuggestionContext) []meal.Meal {
	search := strings.ToLower(strings.TrimSpace(sctx.Search()))
	selected := sctx.SelectedTags()

	var candidates []meal.Meal
	for _, m := range library {
		if sctx.Excluded(m.ID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(m.Name), search) {
			continue
		}
		if len(selected) > 0 && !hasAnyTag(m, selected) {
			continue
		}
		candidates = append(candidates, m)
	}
	return candidates
}

func hasAnyTag(m meal.Meal, selected []meal.Tag) bool {
	for _, t := range selected {
		if m.HasTag(t) {
			return true
		}
	}
	return false
}
