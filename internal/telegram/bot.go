package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"meal-suggester/internal/app"
	"meal-suggester/internal/config"
	"meal-suggester/internal/meal"
	"meal-suggester/internal/plan"
	"meal-suggester/internal/suggest"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API around the suggestion engine. It is the
// presentation layer: it forwards user actions to the engine and renders
// whatever presentation state the engine settles on.
type Bot struct {
	api    *tgbotapi.BotAPI
	engine *suggest.Engine
	app    *app.App
	cfg    *config.Config

	mu         sync.Mutex
	activeChat int64
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, engine *suggest.Engine, application *app.App) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	b := &Bot{api: api, engine: engine, app: application, cfg: cfg}
	engine.Notify(b.renderState)
	return b, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}
	if !isAllowed {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	b.mu.Lock()
	b.activeChat = msg.Chat.ID
	b.mu.Unlock()

	text := strings.TrimSpace(msg.Text)

	// Raw URLs go to the importer (clipper mode).
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		b.handleImport(msg.Chat.ID, text)
		return
	}

	cmd, args := splitCommand(text)
	switch cmd {
	case "/suggest":
		b.handleSuggest(msg.Chat.ID, args)
	case "/tag":
		b.handleTag(msg.Chat.ID, args)
	case "/search":
		b.engine.UpdateSearchQuery(strings.Join(args, " "))
	case "/pick":
		b.handlePick(msg.Chat.ID, args)
	case "/dismiss":
		b.engine.Dismiss()
	case "/shopping":
		b.handleShopping(msg.Chat.ID, msg.From.ID)
	default:
		b.send(msg.Chat.ID, helpText)
	}
}

const helpText = `Commands:
/suggest <slot> [YYYY-MM-DD] - suggest meals for a slot
/tag <tag> - toggle a tag filter
/search <text> - filter by name
/pick <meal-id> - plan a suggested meal
/dismiss - hide suggestions
/shopping - shopping list for this week
Or send a recipe URL to import it.`

func splitCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

func (b *Bot) handleSuggest(chatID int64, args []string) {
	if len(args) == 0 {
		b.send(chatID, "Usage: /suggest <breakfast|lunch|dinner|snack> [YYYY-MM-DD]")
		return
	}

	slot, err := plan.ParseSlot(args[0])
	if err != nil {
		b.send(chatID, fmt.Sprintf("Unknown slot %q.", args[0]))
		return
	}

	date := time.Now()
	if len(args) > 1 {
		parsed, err := time.Parse("2006-01-02", args[1])
		if err != nil {
			b.send(chatID, fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD.", args[1]))
			return
		}
		date = parsed
	}

	b.engine.RequestSuggestions(date, slot)
}

func (b *Bot) handleTag(chatID int64, args []string) {
	if len(args) == 0 {
		b.send(chatID, "Usage: /tag <tag>")
		return
	}
	tag, err := meal.ParseTag(strings.ToLower(args[0]))
	if err != nil {
		b.send(chatID, fmt.Sprintf("Unknown tag %q.", args[0]))
		return
	}
	b.engine.UpdateTagFilter(tag)
}

func (b *Bot) handlePick(chatID int64, args []string) {
	if len(args) == 0 {
		b.send(chatID, "Usage: /pick <meal-id>")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := b.engine.SelectSuggestion(ctx, args[0]); err != nil {
		b.send(chatID, fmt.Sprintf("Could not plan that meal: %v", err))
		return
	}
	b.send(chatID, "✅ Added to your plan.")
}

func (b *Bot) handleImport(chatID int64, url string) {
	b.send(chatID, "Importing recipe...")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := b.app.ImportMeal(ctx, url); err != nil {
		log.Printf("Import failed for %s: %v", url, err)
		b.send(chatID, fmt.Sprintf("Import failed: %v", err))
		return
	}
	b.send(chatID, "✅ Recipe imported into your meal library.")
}

func (b *Bot) handleShopping(chatID int64, userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := b.app.BuildShoppingList(ctx, fmt.Sprintf("%d", userID), time.Now()); err != nil {
		b.send(chatID, fmt.Sprintf("Could not build the shopping list: %v", err))
	}
}

// renderState forwards engine state transitions to the requesting chat.
func (b *Bot) renderState(st suggest.State) {
	b.mu.Lock()
	chatID := b.activeChat
	b.mu.Unlock()
	if chatID == 0 {
		return
	}

	switch st.Kind {
	case suggest.KindLoading:
		// No message; the terminal state follows within moments.
	case suggest.KindSuccess:
		b.send(chatID, formatSuggestions(st))
	case suggest.KindEmpty:
		b.send(chatID, formatEmpty(st.Reason))
	case suggest.KindError:
		b.send(chatID, fmt.Sprintf("⚠️ Suggestions unavailable: %s", st.Message))
	case suggest.KindHidden:
		b.send(chatID, "Suggestions dismissed.")
	}
}

func formatSuggestions(st suggest.State) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🍽 Suggestions for %s %s:\n", st.Context.Date().Format("Mon Jan 2"), st.Context.Slot()))
	for i, sug := range st.Suggestions {
		if sug.HighlyRecommended {
			sb.WriteString(fmt.Sprintf("%d. ⭐ %s", i+1, sug.Meal.Name))
		} else {
			sb.WriteString(fmt.Sprintf("%d. %s", i+1, sug.Meal.Name))
		}
		if len(sug.Reasons) > 0 {
			sb.WriteString(": " + strings.Join(sug.Reasons, ", "))
		}
		sb.WriteString(fmt.Sprintf(" (/pick %s)\n", sug.Meal.ID))
	}
	return sb.String()
}

func formatEmpty(reason suggest.EmptyReason) string {
	switch reason {
	case suggest.EmptyNoMealsInLibrary:
		return "Your meal library is empty. Send me a recipe URL to get started."
	case suggest.EmptyNoMatchesForFilters:
		return "No meals match your current filters. Try /search or /tag again."
	case suggest.EmptyAllCandidatesAlreadyPlanned:
		return "Everything in your library is already planned this week."
	}
	return "No suggestions found."
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}
