package shopping

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"meal-suggester/internal/plan"
)

// List is a consolidated shopping list for one planned week.
type List struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	WeekStart time.Time `json:"week_start"`
	Items     []string  `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// MealLookup resolves meal IDs to their ingredient lists.
type MealLookup interface {
	Ingredients(ctx context.Context, mealID string) ([]string, error)
}

// WeekSource lists the plan records of a calendar week.
type WeekSource interface {
	ListWeek(ctx context.Context, ref time.Time) ([]plan.Record, error)
}

// Builder aggregates the ingredients of every meal planned in a week into
// a deduplicated shopping list.
type Builder struct {
	meals MealLookup
	plans WeekSource
}

// NewBuilder creates a new Builder.
func NewBuilder(meals MealLookup, plans WeekSource) *Builder {
	return &Builder{meals: meals, plans: plans}
}

// BuildForWeek returns the consolidated items for the calendar week
// containing ref. Duplicate ingredients are merged case-insensitively,
// keeping the first spelling seen; the result is sorted.
func (b *Builder) BuildForWeek(ctx context.Context, ref time.Time) ([]string, error) {
	records, err := b.plans.ListWeek(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to list planned meals: %w", err)
	}

	seenMeals := make(map[string]struct{})
	seenItems := make(map[string]string)
	for _, rec := range records {
		if _, ok := seenMeals[rec.MealID]; ok {
			continue
		}
		seenMeals[rec.MealID] = struct{}{}

		ingredients, err := b.meals.Ingredients(ctx, rec.MealID)
		if err != nil {
			return nil, fmt.Errorf("failed to load ingredients for meal %s: %w", rec.MealID, err)
		}
		for _, item := range ingredients {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			key := strings.ToLower(item)
			if _, ok := seenItems[key]; !ok {
				seenItems[key] = item
			}
		}
	}

	items := make([]string, 0, len(seenItems))
	for _, item := range seenItems {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i]) < strings.ToLower(items[j])
	})
	return items, nil
}
