package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecipeSummary(t *testing.T) {
	recipe := &Recipe{
		Title:       "Chicken Curry",
		Ingredients: "chicken, curry paste",
		CookingTime: "40",
		SkillLevel:  "Intermediate",
		Calories:    "550",
	}

	summary := recipe.Summary()
	assert.Contains(t, summary, "📝 Chicken Curry")
	assert.Contains(t, summary, "🥘 Ingredients: chicken, curry paste")
	assert.Contains(t, summary, "⏱ Cooking time: 40 minutes")
	assert.Contains(t, summary, "📊 Skill level: Intermediate")
	assert.Contains(t, summary, "🔥 Calories: 550")
}

func TestRecipeMatchesQuery(t *testing.T) {
	recipe := &Recipe{Title: "Chicken Curry", Ingredients: "chicken, Curry Paste"}

	assert.True(t, recipe.MatchesQuery("curry"))
	assert.True(t, recipe.MatchesQuery("CHICKEN"))
	assert.True(t, recipe.MatchesQuery("paste"))
	assert.False(t, recipe.MatchesQuery("beef"))
}

func TestRecipeHasImage(t *testing.T) {
	assert.False(t, (&Recipe{}).HasImage())
	assert.True(t, (&Recipe{ImagePath: "photos/a.jpg"}).HasImage())
}
