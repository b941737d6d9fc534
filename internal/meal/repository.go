package meal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Library supplies the full set of meals available for suggestion.
type Library interface {
	FetchAllMeals(ctx context.Context) ([]Meal, error)
}

// Repository is a database-backed repository for meals. Meals are stored
// as JSON documents keyed by their ID.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts or updates a meal in the database.
func (r *Repository) Save(ctx context.Context, m Meal) error {
	if m.ID == "" {
		return fmt.Errorf("meal has no ID")
	}
	if m.Name == "" {
		return fmt.Errorf("meal %s has no name", m.ID)
	}

	mealJSON, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal meal to JSON: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO meals (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		m.ID, string(mealJSON), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save meal %s: %w", m.ID, err)
	}
	return nil
}

// Get retrieves a meal by its ID. Returns (nil, nil) when not found.
func (r *Repository) Get(ctx context.Context, id string) (*Meal, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM meals WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal by ID: %w", err)
	}

	var m Meal
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal JSON: %w", err)
	}
	return &m, nil
}

// FetchAllMeals retrieves every meal in the library.
func (r *Repository) FetchAllMeals(ctx context.Context) ([]Meal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, data FROM meals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	var meals []Meal
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan meal row: %w", err)
		}
		var m Meal
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			// Skip corrupt rows rather than failing the whole fetch.
			log.Printf("Warning: failed to unmarshal meal JSON for ID %s: %v", id, err)
			continue
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal rows: %w", err)
	}
	return meals, nil
}

// Ingredients returns the ingredient list of a meal, or nil when the meal
// no longer exists in the library.
func (r *Repository) Ingredients(ctx context.Context, id string) ([]string, error) {
	m, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	return m.Ingredients, nil
}

// Count returns the number of meals in the library.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meals`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count meals: %w", err)
	}
	return count, nil
}
