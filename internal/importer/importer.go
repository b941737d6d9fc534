package importer

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"meal-suggester/internal/llm"
	"meal-suggester/internal/meal"

	"github.com/PuerkitoBio/goquery"
)

// Saver persists an imported meal to the library.
type Saver interface {
	Save(ctx context.Context, m meal.Meal) error
}

// Importer fetches a recipe page, extracts a structured meal with the LLM
// and saves it to the meal library.
type Importer struct {
	textGen llm.TextGenerator
	saver   Saver
}

// extractedMeal is the shape the AI returns.
type extractedMeal struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Tags        []string `json:"tags"`
	Notes       string   `json:"notes"`
}

// NewImporter creates a new Importer instance.
func NewImporter(textGen llm.TextGenerator, saver Saver) *Importer {
	return &Importer{textGen: textGen, saver: saver}
}

// ImportURL fetches the URL, extracts the meal using AI, and saves it to
// the library.
func (imp *Importer) ImportURL(ctx context.Context, url string) (*meal.Meal, error) {
	content, err := fetchAndCleanHTML(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	m, err := imp.Extract(ctx, content)
	if err != nil {
		return nil, err
	}
	m.Notes = strings.TrimSpace(m.Notes + "\nImported from " + url)

	if err := imp.saver.Save(ctx, *m); err != nil {
		return nil, fmt.Errorf("failed to save imported meal: %w", err)
	}
	return m, nil
}

// Extract turns cleaned page content into a tag-validated meal. Unknown
// tags from the AI are dropped with a log line rather than failing the
// import.
func (imp *Importer) Extract(ctx context.Context, content string) (*meal.Meal, error) {
	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the meal details from the following page content.
Return the result strictly as a JSON object with this structure:
{
  "name": "Meal Name",
  "ingredients": ["item 1", "item 2", ...],
  "tags": ["breakfast|lunch|dinner|snack", "vegetarian|vegan|gluten-free|healthy", "quick|slow-cook"],
  "notes": "One short sentence about the meal"
}

Only use tags from the lists shown above. Do not include any other text in your response.

Page Content:
%s
`, content)

	llmResponse, err := imp.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted extractedMeal
	if err := json.Unmarshal([]byte(llmResponse), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, llmResponse)
	}
	if extracted.Name == "" {
		return nil, fmt.Errorf("ai extraction returned a meal with no name")
	}

	var tags []meal.Tag
	for _, raw := range extracted.Tags {
		tag, err := meal.ParseTag(strings.ToLower(strings.TrimSpace(raw)))
		if err != nil {
			log.Printf("Skipping unknown tag %q on imported meal '%s'", raw, extracted.Name)
			continue
		}
		tags = append(tags, tag)
	}

	return &meal.Meal{
		ID:          newMealID(),
		Name:        extracted.Name,
		Ingredients: extracted.Ingredients,
		Tags:        tags,
		Notes:       extracted.Notes,
	}, nil
}

func fetchAndCleanHTML(url string) (string, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	return CleanHTML(resp.Body)
}

// CleanHTML strips navigation and script noise from a recipe page and
// returns its text content.
func CleanHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}

func newMealID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("meal-%d", time.Now().UnixNano())
	}
	return "meal-" + hex.EncodeToString(buf)
}
