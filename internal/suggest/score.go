package suggest

import (
	"fmt"
	"time"

	"meal-suggester/internal/meal"
	"meal-suggester/internal/plan"
)

// Weights are the tunable constants of the scorer. Behavior is validated
// against ordering properties, not exact score values, so these can be
// adjusted without breaking consumers.
type Weights struct {
	// TagMatch is awarded per meal tag matching the slot's associated tag.
	TagMatch float64
	// RecencyMax is the bonus for a never-planned meal; planned meals ramp
	// linearly up to it over RecencyWindowDays.
	RecencyMax        float64
	RecencyWindowDays int
	// FrequencyPerPlan accrues per historical plan, capped at FrequencyMax.
	FrequencyPerPlan float64
	FrequencyMax     float64
	// HighlyRecommended is the score a suggestion must exceed to carry the
	// presentation-emphasis flag.
	HighlyRecommended float64
}

// DefaultWeights returns the tuning used by the application.
func DefaultWeights() Weights {
	return Weights{
		TagMatch:          2.0,
		RecencyMax:        3.0,
		RecencyWindowDays: 28,
		FrequencyPerPlan:  0.25,
		FrequencyMax:      1.5,
		HighlyRecommended: 4.0,
	}
}

// Suggestion is one scored candidate. Ephemeral: recomputed on every
// context change, never persisted.
type Suggestion struct {
	Meal              meal.Meal
	Score             float64
	Reasons           []string
	LastPlanned       *time.Time
	PlanCount         int
	HighlyRecommended bool
}

// slotTags maps each slot to its conventionally associated meal tag, so a
// breakfast-tagged meal scores higher for a breakfast slot even when the
// user has not filtered by tags.
var slotTags = map[plan.Slot]meal.Tag{
	plan.SlotBreakfast: meal.TagBreakfast,
	plan.SlotLunch:     meal.TagLunch,
	plan.SlotDinner:    meal.TagDinner,
	plan.SlotSnack:     meal.TagSnack,
}

// Scorer assigns additive scores and human-readable reasons to candidates.
type Scorer struct {
	weights Weights
	now     func() time.Time
}

// NewScorer creates a Scorer with the given weights.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w, now: time.Now}
}

// Score computes the suggestion for one candidate. Contributions are
// independent and the reasons list follows the fixed order tag-match,
// recency, frequency.
func (s *Scorer) Score(m meal.Meal, sctx *SuggestionContext, h plan.History) Suggestion {
	sug := Suggestion{
		Meal:        m,
		LastPlanned: h.LastPlanned,
		PlanCount:   h.PlanCount,
	}

	// Tag-match: semantic fit between the meal's tags and the slot.
	if tag, ok := slotTags[sctx.Slot()]; ok && m.HasTag(tag) {
		sug.Score += s.weights.TagMatch
		sug.Reasons = append(sug.Reasons, "Matches the meal type")
	}

	// Recency: never planned earns the maximum bonus; otherwise the bonus
	// shrinks monotonically as the last plan gets closer to today.
	if h.LastPlanned == nil {
		sug.Score += s.weights.RecencyMax
		sug.Reasons = append(sug.Reasons, "Never planned before")
	} else if bonus := s.recencyBonus(*h.LastPlanned); bonus > 0 {
		sug.Score += bonus
		sug.Reasons = append(sug.Reasons, "Not planned recently")
	}

	// Frequency: demonstrated preference, capped so it cannot drown out
	// the recency signal.
	if h.PlanCount > 0 {
		bonus := s.weights.FrequencyPerPlan * float64(h.PlanCount)
		if bonus > s.weights.FrequencyMax {
			bonus = s.weights.FrequencyMax
		}
		sug.Score += bonus
		sug.Reasons = append(sug.Reasons, fmt.Sprintf("Planned %d times before", h.PlanCount))
	}

	sug.HighlyRecommended = sug.Score > s.weights.HighlyRecommended
	return sug
}

func (s *Scorer) recencyBonus(lastPlanned time.Time) float64 {
	days := int(s.now().Sub(lastPlanned).Hours() / 24)
	if days <= 0 {
		return 0
	}
	if days > s.weights.RecencyWindowDays {
		days = s.weights.RecencyWindowDays
	}
	return s.weights.RecencyMax * float64(days) / float64(s.weights.RecencyWindowDays)
}
