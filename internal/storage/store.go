package storage

import (
	"errors"

	"github.com/recipehub/recipebot-backend/internal/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

var storeInstance Store

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations
type Store interface {
	// Recipe operations
	CreateRecipe(draft *models.RecipeDraft) (*models.Recipe, error)
	GetRecipe(id uint) (*models.Recipe, error)
	SearchRecipes(query string) ([]*models.Recipe, error)

	// User operations
	GetUserByWhatsApp(whatsappID string) (*models.User, error)
	UpsertUserBMI(whatsappID string, bmi float64) (*models.User, error)

	// Favorite operations
	AddFavorite(whatsappID string, recipeID uint) error
	GetFavoriteRecipes(whatsappID string) ([]*models.Recipe, error)

	// Comment operations
	AddComment(whatsappID string, recipeID uint, body string) (*models.Comment, error)
	GetComments(recipeID uint) ([]*models.Comment, error)
}
