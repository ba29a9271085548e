package storage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipehub/recipebot-backend/internal/models"
)

func seedRecipe(t *testing.T, store *MemoryStore, title, ingredients string) *models.Recipe {
	t.Helper()
	recipe, err := store.CreateRecipe(&models.RecipeDraft{
		Title:       title,
		Ingredients: ingredients,
	})
	require.NoError(t, err)
	return recipe
}

func TestCreateAndGetRecipe(t *testing.T) {
	store := NewMemoryStore()

	recipe, err := store.CreateRecipe(&models.RecipeDraft{
		Title:        "Shakshuka",
		Ingredients:  "eggs, tomatoes, peppers",
		CookingTime:  "30",
		SkillLevel:   "Intermediate",
		Calories:     "420",
		Instructions: "Simmer the sauce, poach the eggs.",
		ImagePath:    "photos/abc.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), recipe.ID)

	got, err := store.GetRecipe(recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shakshuka", got.Title)
	assert.Equal(t, "photos/abc.jpg", got.ImagePath)

	_, err = store.GetRecipe(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRecipeRequiresTitle(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.CreateRecipe(&models.RecipeDraft{Ingredients: "flour"})
	assert.Error(t, err)
}

func TestSearchRecipes(t *testing.T) {
	store := NewMemoryStore()
	seedRecipe(t, store, "Chicken Curry", "chicken, curry paste")
	seedRecipe(t, store, "Beef Stew", "beef, carrots")
	seedRecipe(t, store, "Fried Rice", "rice, CHICKEN, soy sauce")

	// Case-insensitive, matches title or ingredients, insertion order
	results, err := store.SearchRecipes("ChIcKeN")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Chicken Curry", results[0].Title)
	assert.Equal(t, "Fried Rice", results[1].Title)

	results, err = store.SearchRecipes("carrot")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Beef Stew", results[0].Title)

	results, err = store.SearchRecipes("durian")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUpsertUserBMI(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetUserByWhatsApp("+15550001111")
	assert.ErrorIs(t, err, ErrNotFound)

	user, err := store.UpsertUserBMI("+15550001111", 22.5)
	require.NoError(t, err)
	require.NotNil(t, user.BMI)
	assert.Equal(t, 22.5, *user.BMI)
	firstID := user.ID

	// Second calculation updates the same record
	user, err = store.UpsertUserBMI("+15550001111", 23.1)
	require.NoError(t, err)
	assert.Equal(t, firstID, user.ID)
	assert.Equal(t, 23.1, *user.BMI)

	got, err := store.GetUserByWhatsApp("+15550001111")
	require.NoError(t, err)
	assert.Equal(t, 23.1, *got.BMI)
}

func TestFavorites(t *testing.T) {
	store := NewMemoryStore()
	curry := seedRecipe(t, store, "Chicken Curry", "chicken")
	stew := seedRecipe(t, store, "Beef Stew", "beef")

	// No user record yet means no favorites, not an error
	recipes, err := store.GetFavoriteRecipes("+15550001111")
	require.NoError(t, err)
	assert.Empty(t, recipes)

	require.NoError(t, store.AddFavorite("+15550001111", curry.ID))
	require.NoError(t, store.AddFavorite("+15550001111", stew.ID))
	// Favoriting twice is tolerated and listed once
	require.NoError(t, store.AddFavorite("+15550001111", curry.ID))

	recipes, err = store.GetFavoriteRecipes("+15550001111")
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Chicken Curry", recipes[0].Title)
	assert.Equal(t, "Beef Stew", recipes[1].Title)

	// A different user sees their own list
	recipes, err = store.GetFavoriteRecipes("+15550002222")
	require.NoError(t, err)
	assert.Empty(t, recipes)

	// Favoriting an unknown recipe fails
	assert.ErrorIs(t, store.AddFavorite("+15550001111", 99), ErrNotFound)
}

func TestComments(t *testing.T) {
	store := NewMemoryStore()
	recipe := seedRecipe(t, store, "Chicken Curry", "chicken")

	comment, err := store.AddComment("+15550001111", recipe.ID, "Loved it!")
	require.NoError(t, err)
	assert.Equal(t, "Loved it!", comment.Body)

	_, err = store.AddComment("+15550002222", recipe.ID, "Too spicy for me.")
	require.NoError(t, err)

	comments, err := store.GetComments(recipe.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Loved it!", comments[0].Body)
	assert.Equal(t, "Too spicy for me.", comments[1].Body)

	_, err = store.AddComment("+15550001111", recipe.ID, "")
	assert.Error(t, err)

	_, err = store.AddComment("+15550001111", 99, "ghost recipe")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentRecipeCreation(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.CreateRecipe(&models.RecipeDraft{Title: "Concurrent Dish"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	results, err := store.SearchRecipes("concurrent")
	require.NoError(t, err)
	require.Len(t, results, 50)

	// IDs are unique
	seen := make(map[uint]bool)
	for _, recipe := range results {
		assert.False(t, seen[recipe.ID])
		seen[recipe.ID] = true
	}
}
