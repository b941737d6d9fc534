package meal

import "testing"

func TestParseTag(t *testing.T) {
	tag, err := ParseTag("breakfast")
	if err != nil {
		t.Fatalf("ParseTag failed: %v", err)
	}
	if tag != TagBreakfast {
		t.Errorf("Expected %s, got %s", TagBreakfast, tag)
	}

	if _, err := ParseTag("brunch"); err == nil {
		t.Error("Expected an error for unknown tag 'brunch', got nil")
	}
	if _, err := ParseTag(""); err == nil {
		t.Error("Expected an error for empty tag, got nil")
	}
}

func TestHasTag(t *testing.T) {
	m := Meal{ID: "1", Name: "Omelette", Tags: []Tag{TagBreakfast, TagQuick}}

	if !m.HasTag(TagBreakfast) {
		t.Error("Expected meal to have breakfast tag")
	}
	if m.HasTag(TagDinner) {
		t.Error("Expected meal not to have dinner tag")
	}

	empty := Meal{ID: "2", Name: "Plain"}
	if empty.HasTag(TagBreakfast) {
		t.Error("Expected tagless meal to have no tags")
	}
}
