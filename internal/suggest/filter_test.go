package suggest

import (
	"testing"
	"time"

	"meal-suggester/internal/meal"
	"meal-suggester/internal/plan"
)

var testDate = time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

func TestFilterExclusionSet(t *testing.T) {
	library := []meal.Meal{
		{ID: "a", Name: "Pasta"},
		{ID: "b", Name: "Salad"},
	}
	sctx := NewContext(testDate, plan.SlotDinner, nil, "", map[string]struct{}{"a": {}})

	got := FilterCandidates(library, sctx)
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("Expected only 'b' to survive the exclusion set, got %v", got)
	}
}

func TestFilterSearchIsCaseInsensitiveSubstring(t *testing.T) {
	library := []meal.Meal{
		{ID: "a", Name: "Caesar Salad"},
		{ID: "b", Name: "Spaghetti"},
	}

	sctx := NewContext(testDate, plan.SlotLunch, nil, "SALAD", nil)
	got := FilterCandidates(library, sctx)
	if len(got) != 1 || got[0].Name != "Caesar Salad" {
		t.Errorf("Expected 'Caesar Salad' for search 'SALAD', got %v", got)
	}

	// Blank search retains everything.
	sctx = NewContext(testDate, plan.SlotLunch, nil, "   ", nil)
	if got := FilterCandidates(library, sctx); len(got) != 2 {
		t.Errorf("Expected blank search to retain all meals, got %v", got)
	}
}

func TestFilterTagSelectionIsInclusiveOR(t *testing.T) {
	candidate := meal.Meal{ID: "a", Name: "Omelette", Tags: []meal.Tag{meal.TagBreakfast}}

	// Selected {A, B}: a meal tagged {A} qualifies.
	sctx := NewContext(testDate, plan.SlotBreakfast, []meal.Tag{meal.TagBreakfast, meal.TagQuick}, "", nil)
	if got := FilterCandidates([]meal.Meal{candidate}, sctx); len(got) != 1 {
		t.Errorf("Expected meal with one of two selected tags to be retained, got %v", got)
	}

	// Selected {B} only: the meal is excluded.
	sctx = NewContext(testDate, plan.SlotBreakfast, []meal.Tag{meal.TagQuick}, "", nil)
	if got := FilterCandidates([]meal.Meal{candidate}, sctx); len(got) != 0 {
		t.Errorf("Expected meal without the selected tag to be excluded, got %v", got)
	}
}

func TestFilterEmptyResultIsValid(t *testing.T) {
	sctx := NewContext(testDate, plan.SlotDinner, nil, "nothing matches", nil)
	got := FilterCandidates([]meal.Meal{{ID: "a", Name: "Pasta"}}, sctx)
	if len(got) != 0 {
		t.Errorf("Expected empty result, got %v", got)
	}
}

func TestFilterConditionsCombine(t *testing.T) {
	library := []meal.Meal{
		{ID: "a", Name: "Caesar Salad", Tags: []meal.Tag{meal.TagLunch, meal.TagHealthy}},
		{ID: "b", Name: "Salad Niçoise", Tags: []meal.Tag{meal.TagDinner}},
		{ID: "c", Name: "Green Salad", Tags: []meal.Tag{meal.TagHealthy}},
	}
	sctx := NewContext(testDate, plan.SlotLunch, []meal.Tag{meal.TagHealthy}, "salad", map[string]struct{}{"c": {}})

	got := FilterCandidates(library, sctx)
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("Expected only 'a' to satisfy search+tags+exclusion, got %v", got)
	}
}
