package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Recipe represents a stored recipe in the catalog
type Recipe struct {
	gorm.Model

	Title       string `json:"title" gorm:"not null"`
	Ingredients string `json:"ingredients"` // comma-separated list, stored as entered

	// Cooking time and calories are kept exactly as the user typed them.
	// The dialog collects them as free text and the catalog stores them
	// the same way, so "45", "45 min" and "about an hour" are all valid.
	CookingTime string `json:"cooking_time"`
	Calories    string `json:"calories"`

	SkillLevel   string `json:"skill_level"`  // Beginner / Intermediate / Advanced
	Instructions string `json:"instructions"` // free text, or the path of a saved voice note
	ImagePath    string `json:"image_path"`   // empty when the photo step was skipped
}

// RecipeDraft carries the fields collected by the recipe creation dialog
type RecipeDraft struct {
	Title        string `json:"title" validate:"required"`
	Ingredients  string `json:"ingredients" validate:"required"`
	CookingTime  string `json:"cooking_time"`
	SkillLevel   string `json:"skill_level"`
	Calories     string `json:"calories"`
	Instructions string `json:"instructions"`
	ImagePath    string `json:"image_path"`
}

// Summary renders the text card sent for a recipe in search results
func (r *Recipe) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📝 %s\n", r.Title)
	fmt.Fprintf(&b, "🥘 Ingredients: %s\n", r.Ingredients)
	fmt.Fprintf(&b, "⏱ Cooking time: %s minutes\n", r.CookingTime)
	fmt.Fprintf(&b, "📊 Skill level: %s\n", r.SkillLevel)
	fmt.Fprintf(&b, "🔥 Calories: %s\n", r.Calories)
	return b.String()
}

// HasImage reports whether a dish photo was saved for this recipe
func (r *Recipe) HasImage() bool {
	return r.ImagePath != ""
}

// MatchesQuery checks the case-insensitive substring match used by search
func (r *Recipe) MatchesQuery(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Ingredients), q)
}
