package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
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
	"meal-suggester/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx := context.Background()

	// 2. Initialize the SQLite database
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// 3. Initialize repositories
	mealRepo := meal.NewRepository(db.SQL)
	planRepo := plan.NewRepository(db.SQL)
	shoppingRepo := shopping.NewRepository(db.SQL)

	// 4. Initialize services
	engine := suggest.NewEngine(mealRepo, planRepo, planRepo, suggest.DefaultWeights(), cfg.SuggestionLimit)
	listBuilder := shopping.NewBuilder(mealRepo, planRepo)

	var mealImporter *importer.Importer
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer geminiClient.Close()
		mealImporter = importer.NewImporter(geminiClient, mealRepo)
	} else {
		log.Println("GEMINI_API_KEY not set; recipe import disabled")
	}

	application := app.NewApp(cfg, mealRepo, planRepo, engine, mealImporter, listBuilder, shoppingRepo)

	// 5. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, engine, application)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 6. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Starting webhook server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
