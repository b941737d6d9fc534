package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"meal-suggester/internal/plan"
)

// Repository handles persistence of shopping lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save upserts the shopping list for a user's week and returns its ID.
func (r *Repository) Save(ctx context.Context, list *List) (int64, error) {
	itemsJSON, err := json.Marshal(list.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	weekStart := plan.WeekStart(list.WeekStart).UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO shopping_lists (user_id, week_start_date, items, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, week_start_date) DO UPDATE SET items = excluded.items, created_at = excluded.created_at`,
		list.UserID, weekStart, string(itemsJSON), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read shopping list ID: %w", err)
	}
	return id, nil
}

// GetByUserAndWeek retrieves a shopping list by user ID and week start
// date. Returns (nil, nil) when no list exists.
func (r *Repository) GetByUserAndWeek(ctx context.Context, userID string, weekStart time.Time) (*List, error) {
	var (
		list  List
		items string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, week_start_date, items, created_at FROM shopping_lists
		WHERE user_id = ? AND week_start_date = ?`,
		userID, plan.WeekStart(weekStart).UTC(),
	).Scan(&list.ID, &list.UserID, &list.WeekStart, &items, &list.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping list by user and week: %w", err)
	}

	if err := json.Unmarshal([]byte(items), &list.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	return &list, nil
}

// DeleteByUserAndWeek removes the shopping list for a user's week.
func (r *Repository) DeleteByUserAndWeek(ctx context.Context, userID string, weekStart time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM shopping_lists WHERE user_id = ? AND week_start_date = ?`,
		userID, plan.WeekStart(weekStart).UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	return nil
}
