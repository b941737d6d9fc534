package plan

import (
	"context"
	"fmt"
	"time"
)

// Slot identifies the meal-time position of a plannable entry.
type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
	SlotSnack     Slot = "snack"
)

// ParseSlot validates a raw string against the known slots.
func ParseSlot(s string) (Slot, error) {
	switch Slot(s) {
	case SlotBreakfast, SlotLunch, SlotDinner, SlotSnack:
		return Slot(s), nil
	}
	return "", fmt.Errorf("unknown meal slot %q", s)
}

// Record associates a meal with a calendar date and a meal-time slot.
type Record struct {
	ID        int64
	MealID    string
	Date      time.Time
	Slot      Slot
	CreatedAt time.Time
}

// History summarizes a meal's planning history. LastPlanned is nil when
// the meal was never planned.
type History struct {
	LastPlanned *time.Time
	PlanCount   int
}

// HistorySource supplies plan-history signals for scoring and the set of
// meals already scheduled in a reference week.
type HistorySource interface {
	PlansInWeek(ctx context.Context, ref time.Time) (map[string]struct{}, error)
	HistoryFor(ctx context.Context, mealID string) (History, error)
}

// Recorder commits a suggestion to the plan.
type Recorder interface {
	Add(ctx context.Context, rec Record) error
}

// WeekStart returns the Monday of the calendar week containing d,
// truncated to midnight in d's location.
func WeekStart(d time.Time) time.Time {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// WeekRange returns the half-open [Monday, next Monday) window of the
// calendar week containing d.
func WeekRange(d time.Time) (time.Time, time.Time) {
	start := WeekStart(d)
	return start, start.AddDate(0, 0, 7)
}
