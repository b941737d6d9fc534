package importer

import (
	"context"
	"strings"
	"testing"

	"meal-suggester/internal/meal"
)

type mockTextGenerator struct {
	response string
	prompts  []string
}

func (m *mockTextGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.response, nil
}

type mockSaver struct {
	saved []meal.Meal
}

func (m *mockSaver) Save(ctx context.Context, ml meal.Meal) error {
	m.saved = append(m.saved, ml)
	return nil
}

func TestExtract(t *testing.T) {
	gen := &mockTextGenerator{
		response: `{"name": "Shakshuka", "ingredients": ["Eggs", "Tomatoes", "Paprika"], "tags": ["breakfast", "vegetarian", "brunch"], "notes": "Pan-cooked eggs in tomato sauce"}`,
	}
	imp := NewImporter(gen, &mockSaver{})

	m, err := imp.Extract(context.Background(), "Shakshuka recipe page text")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if m.Name != "Shakshuka" {
		t.Errorf("Expected name 'Shakshuka', got '%s'", m.Name)
	}
	if len(m.Ingredients) != 3 {
		t.Errorf("Expected 3 ingredients, got %v", m.Ingredients)
	}
	if m.ID == "" {
		t.Error("Expected a generated meal ID")
	}

	// The unknown tag "brunch" is dropped; the valid two survive.
	if len(m.Tags) != 2 {
		t.Fatalf("Expected 2 valid tags, got %v", m.Tags)
	}
	if m.Tags[0] != meal.TagBreakfast || m.Tags[1] != meal.TagVegetarian {
		t.Errorf("Expected [breakfast vegetarian], got %v", m.Tags)
	}

	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "Shakshuka recipe page text") {
		t.Error("Expected the page content to be embedded in the prompt")
	}
}

func TestExtractRejectsBadResponses(t *testing.T) {
	imp := NewImporter(&mockTextGenerator{response: "not json"}, &mockSaver{})
	if _, err := imp.Extract(context.Background(), "content"); err == nil {
		t.Error("Expected an error for non-JSON response, got nil")
	}

	imp = NewImporter(&mockTextGenerator{response: `{"ingredients": ["Eggs"]}`}, &mockSaver{})
	if _, err := imp.Extract(context.Background(), "content"); err == nil {
		t.Error("Expected an error for a meal with no name, got nil")
	}
}

func TestCleanHTML(t *testing.T) {
	html := `<html><head><style>body{}</style></head><body>
		<nav>Menu</nav>
		<script>track();</script>
		<h1>Pancakes</h1><p>Mix flour and eggs.</p>
		<footer>Copyright</footer>
	</body></html>`

	text, err := CleanHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("CleanHTML failed: %v", err)
	}

	if !strings.Contains(text, "Pancakes") || !strings.Contains(text, "Mix flour and eggs.") {
		t.Errorf("Expected recipe text to survive, got %q", text)
	}
	for _, noise := range []string{"Menu", "track();", "Copyright", "body{}"} {
		if strings.Contains(text, noise) {
			t.Errorf("Expected %q to be stripped, got %q", noise, text)
		}
	}
}
