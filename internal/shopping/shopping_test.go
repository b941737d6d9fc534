package shopping

import (
	"context"
	"fmt"
	"testing"
	"time"

	"meal-suggester/internal/plan"
)

type mockMeals struct {
	ingredients map[string][]string
}

func (m *mockMeals) Ingredients(ctx context.Context, mealID string) ([]string, error) {
	items, ok := m.ingredients[mealID]
	if !ok {
		return nil, nil
	}
	return items, nil
}

type mockPlans struct {
	records []plan.Record
	err     error
}

func (m *mockPlans) ListWeek(ctx context.Context, ref time.Time) ([]plan.Record, error) {
	return m.records, m.err
}

func TestBuildForWeekAggregatesAndDedupes(t *testing.T) {
	ctx := context.Background()
	meals := &mockMeals{ingredients: map[string][]string{
		"pasta": {"Pasta", "Tomato", "Garlic"},
		"salad": {"Lettuce", "tomato", "  "},
	}}
	plans := &mockPlans{records: []plan.Record{
		{MealID: "pasta", Date: time.Now(), Slot: plan.SlotDinner},
		{MealID: "salad", Date: time.Now(), Slot: plan.SlotLunch},
		{MealID: "pasta", Date: time.Now(), Slot: plan.SlotLunch}, // planned twice, counted once
	}}

	items, err := NewBuilder(meals, plans).BuildForWeek(ctx, time.Now())
	if err != nil {
		t.Fatalf("BuildForWeek failed: %v", err)
	}

	// "Tomato"/"tomato" merge keeping the first spelling; blanks dropped.
	want := []string{"Garlic", "Lettuce", "Pasta", "Tomato"}
	if len(items) != len(want) {
		t.Fatalf("Expected %v, got %v", want, items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("Item %d: expected %q, got %q", i, want[i], items[i])
		}
	}
}

func TestBuildForWeekEmptyPlan(t *testing.T) {
	items, err := NewBuilder(&mockMeals{}, &mockPlans{}).BuildForWeek(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("BuildForWeek failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no items for an empty week, got %v", items)
	}
}

func TestBuildForWeekPropagatesErrors(t *testing.T) {
	plans := &mockPlans{err: fmt.Errorf("db down")}
	if _, err := NewBuilder(&mockMeals{}, plans).BuildForWeek(context.Background(), time.Now()); err == nil {
		t.Error("Expected an error from the plan source, got nil")
	}
}
