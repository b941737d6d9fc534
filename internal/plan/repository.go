package plan

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository is a database-backed repository for plan records. It serves
// both as the HistorySource read side and the Recorder write side.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Add inserts a new plan record.
func (r *Repository) Add(ctx context.Context, rec Record) error {
	if rec.MealID == "" {
		return fmt.Errorf("plan record has no meal ID")
	}
	if _, err := ParseSlot(string(rec.Slot)); err != nil {
		return err
	}

	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	day := time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), 0, 0, 0, 0, time.UTC)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO plan_records (meal_id, plan_date, slot, created_at) VALUES (?, ?, ?, ?)`,
		rec.MealID, day, string(rec.Slot), created,
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan record for meal %s: %w", rec.MealID, err)
	}
	return nil
}

// weekWindowUTC derives the week window from ref's civil date at UTC
// midnight, matching how Add normalizes stored plan dates. Computing the
// window in ref's own location would shift it by the zone offset and
// drop Monday records from their own week.
func weekWindowUTC(ref time.Time) (time.Time, time.Time) {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return WeekRange(day)
}

// PlansInWeek returns the set of meal IDs already scheduled in the
// calendar week containing ref.
func (r *Repository) PlansInWeek(ctx context.Context, ref time.Time) (map[string]struct{}, error) {
	start, end := weekWindowUTC(ref)

	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT meal_id FROM plan_records WHERE plan_date >= ? AND plan_date < ?`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans in week of %s: %w", start.Format("2006-01-02"), err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plan rows: %w", err)
	}
	return ids, nil
}

// HistoryFor returns the last-planned date and total plan count for a meal.
// A meal with no records yields a zero-count History with nil LastPlanned.
func (r *Repository) HistoryFor(ctx context.Context, mealID string) (History, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM plan_records WHERE meal_id = ?`,
		mealID,
	).Scan(&count)
	if err != nil {
		return History{}, fmt.Errorf("failed to count history for meal %s: %w", mealID, err)
	}
	if count == 0 {
		return History{}, nil
	}

	// MAX(plan_date) strips the column's TIMESTAMP decltype and the driver
	// returns a bare string, so select the raw column instead.
	var last time.Time
	err = r.db.QueryRowContext(ctx, `
		SELECT plan_date FROM plan_records WHERE meal_id = ? ORDER BY plan_date DESC LIMIT 1`,
		mealID,
	).Scan(&last)
	if err != nil {
		return History{}, fmt.Errorf("failed to query last plan date for meal %s: %w", mealID, err)
	}
	return History{LastPlanned: &last, PlanCount: count}, nil
}

// ListWeek returns all plan records in the calendar week containing ref,
// ordered by date then slot.
func (r *Repository) ListWeek(ctx context.Context, ref time.Time) ([]Record, error) {
	start, end := weekWindowUTC(ref)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, meal_id, plan_date, slot, created_at FROM plan_records
		WHERE plan_date >= ? AND plan_date < ? ORDER BY plan_date, slot`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans for week: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec  Record
			slot string
		)
		if err := rows.Scan(&rec.ID, &rec.MealID, &rec.Date, &slot, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan record: %w", err)
		}
		rec.Slot = Slot(slot)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plan records: %w", err)
	}
	return records, nil
}
