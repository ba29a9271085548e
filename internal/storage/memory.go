package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/recipehub/recipebot-backend/internal/models"
)

// MemoryStore holds all data in memory, used for tests and local development
type MemoryStore struct {
	recipes   map[uint]*models.Recipe
	users     map[string]*models.User // keyed by WhatsApp number
	favorites []*models.Favorite
	comments  []*models.Comment

	// Mutexes for thread safety
	recipeMu   sync.RWMutex
	userMu     sync.RWMutex
	favoriteMu sync.RWMutex
	commentMu  sync.RWMutex

	// Counters for ID generation
	recipeCounter  uint
	userCounter    uint
	commentCounter uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes: make(map[uint]*models.Recipe),
		users:   make(map[string]*models.User),
	}
}

// Recipe operations

func (m *MemoryStore) CreateRecipe(draft *models.RecipeDraft) (*models.Recipe, error) {
	if draft.Title == "" {
		return nil, fmt.Errorf("recipe title is required")
	}

	m.recipeMu.Lock()
	defer m.recipeMu.Unlock()

	m.recipeCounter++
	recipe := &models.Recipe{
		Title:        draft.Title,
		Ingredients:  draft.Ingredients,
		CookingTime:  draft.CookingTime,
		SkillLevel:   draft.SkillLevel,
		Calories:     draft.Calories,
		Instructions: draft.Instructions,
		ImagePath:    draft.ImagePath,
	}
	recipe.ID = m.recipeCounter
	recipe.CreatedAt = time.Now()
	recipe.UpdatedAt = recipe.CreatedAt

	m.recipes[recipe.ID] = recipe
	return recipe, nil
}

func (m *MemoryStore) GetRecipe(id uint) (*models.Recipe, error) {
	m.recipeMu.RLock()
	defer m.recipeMu.RUnlock()

	recipe, exists := m.recipes[id]
	if !exists {
		return nil, ErrNotFound
	}
	return recipe, nil
}

func (m *MemoryStore) SearchRecipes(query string) ([]*models.Recipe, error) {
	m.recipeMu.RLock()
	defer m.recipeMu.RUnlock()

	var results []*models.Recipe
	for _, recipe := range m.recipes {
		if recipe.MatchesQuery(query) {
			results = append(results, recipe)
		}
	}

	// Map iteration order is random; return results in insertion order
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

// User operations

func (m *MemoryStore) GetUserByWhatsApp(whatsappID string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	user, exists := m.users[whatsappID]
	if !exists {
		return nil, ErrNotFound
	}
	return user, nil
}

func (m *MemoryStore) UpsertUserBMI(whatsappID string, bmi float64) (*models.User, error) {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	user, exists := m.users[whatsappID]
	if !exists {
		m.userCounter++
		user = &models.User{WhatsAppID: whatsappID}
		user.ID = m.userCounter
		user.CreatedAt = time.Now()
		m.users[whatsappID] = user
	}

	value := bmi
	user.BMI = &value
	user.UpdatedAt = time.Now()
	return user, nil
}

// getOrCreateUser resolves a WhatsApp number to a user record, creating one
// on first contact. Caller must not hold userMu.
func (m *MemoryStore) getOrCreateUser(whatsappID string) *models.User {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	user, exists := m.users[whatsappID]
	if !exists {
		m.userCounter++
		user = &models.User{WhatsAppID: whatsappID}
		user.ID = m.userCounter
		user.CreatedAt = time.Now()
		m.users[whatsappID] = user
	}
	return user
}

// Favorite operations

func (m *MemoryStore) AddFavorite(whatsappID string, recipeID uint) error {
	if _, err := m.GetRecipe(recipeID); err != nil {
		return err
	}
	user := m.getOrCreateUser(whatsappID)

	m.favoriteMu.Lock()
	defer m.favoriteMu.Unlock()

	fav := &models.Favorite{UserID: user.ID, RecipeID: recipeID}
	fav.CreatedAt = time.Now()
	m.favorites = append(m.favorites, fav)
	return nil
}

func (m *MemoryStore) GetFavoriteRecipes(whatsappID string) ([]*models.Recipe, error) {
	user, err := m.GetUserByWhatsApp(whatsappID)
	if err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	m.favoriteMu.RLock()
	var recipeIDs []uint
	seen := make(map[uint]bool)
	for _, fav := range m.favorites {
		if fav.UserID == user.ID && !seen[fav.RecipeID] {
			seen[fav.RecipeID] = true
			recipeIDs = append(recipeIDs, fav.RecipeID)
		}
	}
	m.favoriteMu.RUnlock()

	var recipes []*models.Recipe
	for _, id := range recipeIDs {
		if recipe, err := m.GetRecipe(id); err == nil {
			recipes = append(recipes, recipe)
		}
	}
	return recipes, nil
}

// Comment operations

func (m *MemoryStore) AddComment(whatsappID string, recipeID uint, body string) (*models.Comment, error) {
	if body == "" {
		return nil, fmt.Errorf("comment body is required")
	}
	if _, err := m.GetRecipe(recipeID); err != nil {
		return nil, err
	}
	user := m.getOrCreateUser(whatsappID)

	m.commentMu.Lock()
	defer m.commentMu.Unlock()

	m.commentCounter++
	comment := &models.Comment{UserID: user.ID, RecipeID: recipeID, Body: body}
	comment.ID = m.commentCounter
	comment.CreatedAt = time.Now()
	m.comments = append(m.comments, comment)
	return comment, nil
}

func (m *MemoryStore) GetComments(recipeID uint) ([]*models.Comment, error) {
	m.commentMu.RLock()
	defer m.commentMu.RUnlock()

	var results []*models.Comment
	for _, comment := range m.comments {
		if comment.RecipeID == recipeID {
			results = append(results, comment)
		}
	}
	return results, nil
}
