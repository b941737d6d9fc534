package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"meal-suggester/internal/config"
	"meal-suggester/internal/importer"
	"meal-suggester/internal/meal"
	"meal-suggester/internal/plan"
	"meal-suggester/internal/shopping"
	"meal-suggester/internal/suggest"
)

// App holds the application's dependencies and hosts the CLI use-cases.
type App struct {
	cfg          *config.Config
	mealRepo     *meal.Repository
	planRepo     *plan.Repository
	engine       *suggest.Engine
	mealImporter *importer.Importer // nil when no Gemini key is configured
	listBuilder  *shopping.Builder
	shoppingRepo *shopping.Repository
}

// NewApp creates and initializes a new App instance.
func NewApp(
	cfg *config.Config,
	mealRepo *meal.Repository,
	planRepo *plan.Repository,
	engine *suggest.Engine,
	mealImporter *importer.Importer,
	listBuilder *shopping.Builder,
	shoppingRepo *shopping.Repository,
) *App {
	return &App{
		cfg:          cfg,
		mealRepo:     mealRepo,
		planRepo:     planRepo,
		engine:       engine,
		mealImporter: mealImporter,
		listBuilder:  listBuilder,
		shoppingRepo: shoppingRepo,
	}
}

// Suggest runs one suggestion cycle for the given slot and prints the
// resulting presentation state.
func (a *App) Suggest(ctx context.Context, date time.Time, slot plan.Slot, tags []meal.Tag, search string) error {
	a.engine.RequestSuggestions(date, slot)
	for _, t := range tags {
		a.engine.UpdateTagFilter(t)
	}
	if search != "" {
		a.engine.UpdateSearchQuery(search)
	}

	st, err := a.waitForResult(ctx)
	if err != nil {
		return err
	}

	switch st.Kind {
	case suggest.KindSuccess:
		fmt.Printf("=== SUGGESTIONS FOR %s %s ===\n", date.Format("2006-01-02"), strings.ToUpper(string(slot)))
		for i, sug := range st.Suggestions {
			marker := " "
			if sug.HighlyRecommended {
				marker = "*"
			}
			fmt.Printf("%s %d. %s (%.2f)\n", marker, i+1, sug.Meal.Name, sug.Score)
			if len(sug.Reasons) > 0 {
				fmt.Printf("     %s\n", strings.Join(sug.Reasons, " · "))
			}
			if sug.LastPlanned != nil {
				fmt.Printf("     Last planned: %s\n", sug.LastPlanned.Format("2006-01-02"))
			}
		}
	case suggest.KindEmpty:
		fmt.Println(emptyMessage(st.Reason))
	case suggest.KindError:
		return fmt.Errorf("suggestion engine error: %s", st.Message)
	}
	return nil
}

// waitForResult polls the engine until the last triggered computation
// settles. Superseding guarantees the settled state belongs to the most
// recent trigger.
func (a *App) waitForResult(ctx context.Context) (suggest.State, error) {
	deadline := time.Now().Add(10 * time.Second)
	for {
		st := a.engine.State()
		if st.Kind != suggest.KindLoading {
			return st, nil
		}
		if time.Now().After(deadline) {
			return suggest.State{}, fmt.Errorf("timed out waiting for suggestions")
		}
		select {
		case <-ctx.Done():
			return suggest.State{}, ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func emptyMessage(reason suggest.EmptyReason) string {
	switch reason {
	case suggest.EmptyNoMealsInLibrary:
		return "Your meal library is empty. Add meals with 'add' or 'import' first."
	case suggest.EmptyNoMatchesForFilters:
		return "No meals match the active search or tag filters."
	case suggest.EmptyAllCandidatesAlreadyPlanned:
		return "Every meal in your library is already planned this week."
	}
	return "No suggestions available."
}

// ImportMeal clips a recipe URL into the meal library.
func (a *App) ImportMeal(ctx context.Context, url string) error {
	if a.mealImporter == nil {
		return fmt.Errorf("meal import requires GEMINI_API_KEY to be set")
	}

	fmt.Printf("Importing meal from %s...\n", url)
	m, err := a.mealImporter.ImportURL(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to import meal: %w", err)
	}
	fmt.Printf("Imported '%s' (%s) with tags %v.\n", m.Name, m.ID, m.Tags)
	return nil
}

// AddMealsFromFile loads a JSON array of meals into the library.
func (a *App) AddMealsFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read meals file: %w", err)
	}

	var meals []meal.Meal
	if err := json.Unmarshal(data, &meals); err != nil {
		return fmt.Errorf("failed to parse meals file: %w", err)
	}

	saved := 0
	for _, m := range meals {
		if err := a.mealRepo.Save(ctx, m); err != nil {
			fmt.Printf("Skipping meal '%s': %v\n", m.Name, err)
			continue
		}
		saved++
	}
	fmt.Printf("Added %d of %d meals to the library.\n", saved, len(meals))
	return nil
}

// RecordPlan schedules a meal into a slot on the given date.
func (a *App) RecordPlan(ctx context.Context, mealID string, slot plan.Slot, date time.Time) error {
	m, err := a.mealRepo.Get(ctx, mealID)
	if err != nil {
		return fmt.Errorf("failed to look up meal: %w", err)
	}
	if m == nil {
		return fmt.Errorf("no meal with ID %s in the library", mealID)
	}

	if err := a.planRepo.Add(ctx, plan.Record{MealID: mealID, Date: date, Slot: slot}); err != nil {
		return err
	}
	fmt.Printf("Planned '%s' for %s %s.\n", m.Name, date.Format("2006-01-02"), slot)
	return nil
}

// ListMeals prints the meal library.
func (a *App) ListMeals(ctx context.Context) error {
	meals, err := a.mealRepo.FetchAllMeals(ctx)
	if err != nil {
		return fmt.Errorf("failed to load meal library: %w", err)
	}

	if len(meals) == 0 {
		fmt.Println("The meal library is empty.")
		return nil
	}
	for _, m := range meals {
		fmt.Printf("%-20s %s %v\n", m.ID, m.Name, m.Tags)
	}
	return nil
}

// BuildShoppingList aggregates the ingredients of the week containing ref
// and persists the result for the user.
func (a *App) BuildShoppingList(ctx context.Context, userID string, ref time.Time) error {
	items, err := a.listBuilder.BuildForWeek(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to build shopping list: %w", err)
	}
	if len(items) == 0 {
		fmt.Println("Nothing planned this week; no shopping list to build.")
		return nil
	}

	if _, err := a.shoppingRepo.Save(ctx, &shopping.List{
		UserID:    userID,
		WeekStart: plan.WeekStart(ref),
		Items:     items,
	}); err != nil {
		return err
	}

	fmt.Println("=== SHOPPING LIST ===")
	for _, item := range items {
		fmt.Printf("- %s\n", item)
	}
	return nil
}
