package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"meal-suggester/internal/app"
	"meal-suggester/internal/config"
	"meal-suggester/internal/database"
	"meal-suggester/internal/importer"
	"meal-suggester/internal/llm"
	"meal-suggester/internal/meal"
	"meal-suggester/internal/plan"
	"meal-suggester/internal/shopping"
	"meal-suggester/internal/suggest"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	mealRepo := meal.NewRepository(db.SQL)
	planRepo := plan.NewRepository(db.SQL)
	shoppingRepo := shopping.NewRepository(db.SQL)

	engine := suggest.NewEngine(mealRepo, planRepo, planRepo, suggest.DefaultWeights(), cfg.SuggestionLimit)
	listBuilder := shopping.NewBuilder(mealRepo, planRepo)

	// The importer needs the LLM; leave it nil when no key is configured.
	var mealImporter *importer.Importer
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		defer geminiClient.Close()
		mealImporter = importer.NewImporter(geminiClient, mealRepo)
	}

	application := app.NewApp(cfg, mealRepo, planRepo, engine, mealImporter, listBuilder, shoppingRepo)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "suggest":
		if err := runSuggest(ctx, application, os.Args[2:]); err != nil {
			log.Fatalf("Suggest failed: %v", err)
		}
	case "add":
		if len(os.Args) < 3 {
			log.Fatal("Usage: meal-suggester add <meals.json>")
		}
		if err := application.AddMealsFromFile(ctx, os.Args[2]); err != nil {
			log.Fatalf("Add failed: %v", err)
		}
	case "import":
		if len(os.Args) < 3 {
			log.Fatal("Usage: meal-suggester import <url>")
		}
		if err := application.ImportMeal(ctx, os.Args[2]); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	case "plan":
		if err := runPlan(ctx, application, os.Args[2:]); err != nil {
			log.Fatalf("Plan failed: %v", err)
		}
	case "list":
		if err := application.ListMeals(ctx); err != nil {
			log.Fatalf("List failed: %v", err)
		}
	case "shopping":
		if err := application.BuildShoppingList(ctx, "default_user", time.Now()); err != nil {
			log.Fatalf("Shopping list failed: %v", err)
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func runSuggest(ctx context.Context, application *app.App, args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	dateStr := fs.String("date", "", "target date (YYYY-MM-DD, default today)")
	tagList := fs.String("tags", "", "comma-separated tag filters")
	search := fs.String("search", "", "free-text name search")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: meal-suggester suggest [-date YYYY-MM-DD] [-tags t1,t2] [-search text] <slot>")
	}

	slot, err := plan.ParseSlot(fs.Arg(0))
	if err != nil {
		return err
	}

	date := time.Now()
	if *dateStr != "" {
		date, err = time.Parse("2006-01-02", *dateStr)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", *dateStr, err)
		}
	}

	var tags []meal.Tag
	if *tagList != "" {
		for _, raw := range strings.Split(*tagList, ",") {
			tag, err := meal.ParseTag(strings.TrimSpace(raw))
			if err != nil {
				return err
			}
			tags = append(tags, tag)
		}
	}

	return application.Suggest(ctx, date, slot, tags, *search)
}

func runPlan(ctx context.Context, application *app.App, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: meal-suggester plan <meal-id> <slot> [YYYY-MM-DD]")
	}

	slot, err := plan.ParseSlot(args[1])
	if err != nil {
		return err
	}

	date := time.Now()
	if len(args) > 2 {
		date, err = time.Parse("2006-01-02", args[2])
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", args[2], err)
		}
	}

	return application.RecordPlan(ctx, args[0], slot, date)
}

func printUsage() {
	fmt.Println(`Usage: meal-suggester <command>

Commands:
  suggest [-date YYYY-MM-DD] [-tags t1,t2] [-search text] <slot>
          Suggest meals for a planner slot (breakfast|lunch|dinner|snack)
  add <meals.json>     Load meals from a JSON file into the library
  import <url>         Import a recipe URL into the library (needs GEMINI_API_KEY)
  plan <meal-id> <slot> [YYYY-MM-DD]
          Schedule a meal into a slot
  list                 List the meal library
  shopping             Build the shopping list for this week`)
}
