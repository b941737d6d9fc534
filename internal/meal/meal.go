package meal

import "fmt"

// Tag is a fixed classification a meal can carry. The set is closed:
// meal-time categories, dietary properties and prep-speed properties.
type Tag string

const (
	TagBreakfast Tag = "breakfast"
	TagLunch     Tag = "lunch"
	TagDinner    Tag = "dinner"
	TagSnack     Tag = "snack"

	TagVegetarian Tag = "vegetarian"
	TagVegan      Tag = "vegan"
	TagGlutenFree Tag = "gluten-free"
	TagHealthy    Tag = "healthy"

	TagQuick    Tag = "quick"
	TagSlowCook Tag = "slow-cook"
)

var allTags = []Tag{
	TagBreakfast, TagLunch, TagDinner, TagSnack,
	TagVegetarian, TagVegan, TagGlutenFree, TagHealthy,
	TagQuick, TagSlowCook,
}

// AllTags returns the closed set of known tags.
func AllTags() []Tag {
	tags := make([]Tag, len(allTags))
	copy(tags, allTags)
	return tags
}

// ParseTag validates a raw string against the closed tag set.
func ParseTag(s string) (Tag, error) {
	for _, t := range allTags {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tag %q", s)
}

// Meal is a user-authored entry in the meal library. Suggestions reference
// meals but never own them.
type Meal struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Tags        []Tag    `json:"tags"`
	Notes       string   `json:"notes,omitempty"`
}

// HasTag reports whether the meal carries the given tag.
func (m Meal) HasTag(tag Tag) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
