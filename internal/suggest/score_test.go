package suggest

import (
	"testing"
	"time"

	"meal-suggester/internal/meal"
	"meal-suggester/internal/plan"
)

func fixedScorer() *Scorer {
	s := NewScorer(DefaultWeights())
	s.now = func() time.Time { return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC) }
	return s
}

func daysAgo(s *Scorer, days int) *time.Time {
	d := s.now().AddDate(0, 0, -days)
	return &d
}

func TestScoreTagMatchVsHistory(t *testing.T) {
	// Library = [MealX(breakfast, never planned), MealY(dinner, planned 14
	// days ago, 3 times)], slot = breakfast: X must outrank Y.
	s := fixedScorer()
	sctx := NewContext(testDate, plan.SlotBreakfast, nil, "", nil)

	mealX := meal.Meal{ID: "x", Name: "Omelette", Tags: []meal.Tag{meal.TagBreakfast}}
	mealY := meal.Meal{ID: "y", Name: "Lasagna", Tags: []meal.Tag{meal.TagDinner}}

	sugX := s.Score(mealX, sctx, plan.History{})
	sugY := s.Score(mealY, sctx, plan.History{LastPlanned: daysAgo(s, 14), PlanCount: 3})

	if sugX.Score <= sugY.Score {
		t.Errorf("Expected score(X)=%v > score(Y)=%v", sugX.Score, sugY.Score)
	}
}

func TestScoreReasonsOrderAndContent(t *testing.T) {
	s := fixedScorer()
	sctx := NewContext(testDate, plan.SlotDinner, nil, "", nil)

	m := meal.Meal{ID: "a", Name: "Lasagna", Tags: []meal.Tag{meal.TagDinner}}
	sug := s.Score(m, sctx, plan.History{LastPlanned: daysAgo(s, 21), PlanCount: 4})

	want := []string{"Matches the meal type", "Not planned recently", "Planned 4 times before"}
	if len(sug.Reasons) != len(want) {
		t.Fatalf("Expected %d reasons, got %v", len(want), sug.Reasons)
	}
	for i, r := range want {
		if sug.Reasons[i] != r {
			t.Errorf("Reason %d: expected %q, got %q", i, r, sug.Reasons[i])
		}
	}
}

func TestScoreNeverPlannedGetsMaxRecency(t *testing.T) {
	s := fixedScorer()
	sctx := NewContext(testDate, plan.SlotLunch, nil, "", nil)
	m := meal.Meal{ID: "a", Name: "Salad"}

	never := s.Score(m, sctx, plan.History{})
	longAgo := s.Score(m, sctx, plan.History{LastPlanned: daysAgo(s, 365)})
	recent := s.Score(m, sctx, plan.History{LastPlanned: daysAgo(s, 2)})
	today := s.Score(m, sctx, plan.History{LastPlanned: daysAgo(s, 0)})

	if never.Score < longAgo.Score {
		t.Errorf("Never planned (%v) should score at least as high as long ago (%v)", never.Score, longAgo.Score)
	}
	if longAgo.Score <= recent.Score {
		t.Errorf("Long ago (%v) should outscore recent (%v)", longAgo.Score, recent.Score)
	}
	if today.Score != 0 {
		t.Errorf("Planned today should get no recency bonus, got %v", today.Score)
	}

	if len(never.Reasons) == 0 || never.Reasons[0] != "Never planned before" {
		t.Errorf("Expected 'Never planned before' reason, got %v", never.Reasons)
	}
	if len(today.Reasons) != 0 {
		t.Errorf("Expected no reasons for a meal planned today, got %v", today.Reasons)
	}
}

func TestScoreFrequencyIsCapped(t *testing.T) {
	s := fixedScorer()
	w := DefaultWeights()
	sctx := NewContext(testDate, plan.SlotLunch, nil, "", nil)
	m := meal.Meal{ID: "a", Name: "Salad"}
	last := daysAgo(s, 1)

	few := s.Score(m, sctx, plan.History{LastPlanned: last, PlanCount: 2})
	many := s.Score(m, sctx, plan.History{LastPlanned: last, PlanCount: 200})

	if many.Score-few.Score > w.FrequencyMax {
		t.Errorf("Frequency bonus exceeded its cap: few=%v many=%v", few.Score, many.Score)
	}
	if many.Score <= few.Score {
		t.Errorf("More plans should still score higher up to the cap: few=%v many=%v", few.Score, many.Score)
	}
}

func TestScoreHighlyRecommendedThreshold(t *testing.T) {
	s := fixedScorer()
	sctx := NewContext(testDate, plan.SlotBreakfast, nil, "", nil)

	strong := s.Score(meal.Meal{ID: "a", Name: "Omelette", Tags: []meal.Tag{meal.TagBreakfast}}, sctx, plan.History{})
	weak := s.Score(meal.Meal{ID: "b", Name: "Lasagna"}, sctx, plan.History{LastPlanned: daysAgo(s, 1), PlanCount: 1})

	if !strong.HighlyRecommended {
		t.Errorf("Expected tag-match + never-planned (%v) to be highly recommended", strong.Score)
	}
	if weak.HighlyRecommended {
		t.Errorf("Expected weak candidate (%v) not to be highly recommended", weak.Score)
	}
}
