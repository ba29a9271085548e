package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/recipehub/recipebot-backend/internal/models"
)

// DatabaseStore implements Store on top of gorm/PostgreSQL
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Recipe operations

func (s *DatabaseStore) CreateRecipe(draft *models.RecipeDraft) (*models.Recipe, error) {
	if draft.Title == "" {
		return nil, fmt.Errorf("recipe title is required")
	}

	recipe := &models.Recipe{
		Title:        draft.Title,
		Ingredients:  draft.Ingredients,
		CookingTime:  draft.CookingTime,
		SkillLevel:   draft.SkillLevel,
		Calories:     draft.Calories,
		Instructions: draft.Instructions,
		ImagePath:    draft.ImagePath,
	}

	if err := s.db.Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

func (s *DatabaseStore) GetRecipe(id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (s *DatabaseStore) SearchRecipes(query string) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	pattern := "%" + query + "%"
	err := s.db.
		Where("title ILIKE ? OR ingredients ILIKE ?", pattern, pattern).
		Order("id").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("recipe search failed: %w", err)
	}
	return recipes, nil
}

// User operations

func (s *DatabaseStore) GetUserByWhatsApp(whatsappID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("whats_app_id = ?", whatsappID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *DatabaseStore) UpsertUserBMI(whatsappID string, bmi float64) (*models.User, error) {
	var user models.User
	err := s.db.
		Where(models.User{WhatsAppID: whatsappID}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	if err := s.db.Model(&user).Update("bmi", bmi).Error; err != nil {
		return nil, fmt.Errorf("failed to update BMI: %w", err)
	}

	value := bmi
	user.BMI = &value
	return &user, nil
}

func (s *DatabaseStore) getOrCreateUser(whatsappID string) (*models.User, error) {
	var user models.User
	err := s.db.
		Where(models.User{WhatsAppID: whatsappID}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return &user, nil
}

// Favorite operations

func (s *DatabaseStore) AddFavorite(whatsappID string, recipeID uint) error {
	if _, err := s.GetRecipe(recipeID); err != nil {
		return err
	}
	user, err := s.getOrCreateUser(whatsappID)
	if err != nil {
		return err
	}

	fav := &models.Favorite{UserID: user.ID, RecipeID: recipeID}
	if err := s.db.Create(fav).Error; err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (s *DatabaseStore) GetFavoriteRecipes(whatsappID string) ([]*models.Recipe, error) {
	user, err := s.GetUserByWhatsApp(whatsappID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var recipes []*models.Recipe
	err = s.db.
		Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
		Where("favorites.user_id = ?", user.ID).
		Distinct().
		Order("recipes.id").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return recipes, nil
}

// Comment operations

func (s *DatabaseStore) AddComment(whatsappID string, recipeID uint, body string) (*models.Comment, error) {
	if body == "" {
		return nil, fmt.Errorf("comment body is required")
	}
	if _, err := s.GetRecipe(recipeID); err != nil {
		return nil, err
	}
	user, err := s.getOrCreateUser(whatsappID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{UserID: user.ID, RecipeID: recipeID, Body: body}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return comment, nil
}

func (s *DatabaseStore) GetComments(recipeID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := s.db.
		Where("recipe_id = ?", recipeID).
		Order("id").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return comments, nil
}
