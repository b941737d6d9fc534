package suggest

import (
	"strings"
	"time"

	"meal-suggester/internal/meal"
	"meal-suggester/internal/plan"
)

// SuggestionContext is the immutable query descriptor for one suggestion
// computation: the slot being filled plus the filters active at the time
// it was built. A filter change never mutates a context; it builds a new
// one that atomically replaces the old.
type SuggestionContext struct {
	date    time.Time
	slot    plan.Slot
	tags    map[meal.Tag]struct{}
	search  string
	exclude map[string]struct{}
}

// NewContext assembles a SuggestionContext, copying every collection input
// so later changes to the caller's values cannot leak in.
func NewContext(date time.Time, slot plan.Slot, tags []meal.Tag, search string, exclude map[string]struct{}) *SuggestionContext {
	c := &SuggestionContext{
		date:    time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		slot:    slot,
		search:  search,
		tags:    make(map[meal.Tag]struct{}, len(tags)),
		exclude: make(map[string]struct{}, len(exclude)),
	}
	for _, t := range tags {
		c.tags[t] = struct{}{}
	}
	for id := range exclude {
		c.exclude[id] = struct{}{}
	}
	return c
}

// Date returns the target date of the slot being filled.
func (c *SuggestionContext) Date() time.Time { return c.date }

// Slot returns the target meal-time slot.
func (c *SuggestionContext) Slot() plan.Slot { return c.slot }

// Search returns the current free-text search string.
func (c *SuggestionContext) Search() string { return c.search }

// SelectedTags returns a copy of the active tag selection.
func (c *SuggestionContext) SelectedTags() []meal.Tag {
	tags := make([]meal.Tag, 0, len(c.tags))
	for t := range c.tags {
		tags = append(tags, t)
	}
	return tags
}

// HasTagSelected reports whether the given tag is part of the selection.
func (c *SuggestionContext) HasTagSelected(t meal.Tag) bool {
	_, ok := c.tags[t]
	return ok
}

// Excluded reports whether a meal identifier is in the exclusion set.
func (c *SuggestionContext) Excluded(mealID string) bool {
	_, ok := c.exclude[mealID]
	return ok
}

// HasFilters reports whether a tag filter or a non-blank search is active.
func (c *SuggestionContext) HasFilters() bool {
	return len(c.tags) > 0 || strings.TrimSpace(c.search) != ""
}
