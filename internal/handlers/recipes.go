package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/recipehub/recipebot-backend/internal/storage"
)

// RecipeHandler handles recipe-related REST requests
type RecipeHandler struct {
	store storage.Store
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(store storage.Store) *RecipeHandler {
	return &RecipeHandler{
		store: store,
	}
}

func parseRecipeID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// GetRecipe retrieves a recipe by ID
func (h *RecipeHandler) GetRecipe(c *fiber.Ctx) error {
	id, err := parseRecipeID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recipe ID",
		})
	}

	recipe, err := h.store.GetRecipe(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Recipe not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load recipe",
		})
	}

	return c.JSON(recipe)
}

// SearchRecipes runs the catalog substring search
func (h *RecipeHandler) SearchRecipes(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter 'q' is required",
		})
	}

	recipes, err := h.store.SearchRecipes(query)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Recipe search failed",
		})
	}

	return c.JSON(fiber.Map{
		"query":   query,
		"count":   len(recipes),
		"recipes": recipes,
	})
}

// FavoriteRequest identifies the user saving a favorite
type FavoriteRequest struct {
	WhatsAppID string `json:"whatsapp_id"`
}

// AddFavorite saves a recipe to a user's favorites
func (h *RecipeHandler) AddFavorite(c *fiber.Ctx) error {
	id, err := parseRecipeID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recipe ID",
		})
	}

	var req FavoriteRequest
	if err := c.BodyParser(&req); err != nil || req.WhatsAppID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "whatsapp_id is required",
		})
	}

	if err := h.store.AddFavorite(req.WhatsAppID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Recipe not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add favorite",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Favorite added",
	})
}

// CommentRequest carries a new comment
type CommentRequest struct {
	WhatsAppID string `json:"whatsapp_id"`
	Body       string `json:"body"`
}

// AddComment appends a comment to a recipe
func (h *RecipeHandler) AddComment(c *fiber.Ctx) error {
	id, err := parseRecipeID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recipe ID",
		})
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil || req.WhatsAppID == "" || req.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "whatsapp_id and body are required",
		})
	}

	comment, err := h.store.AddComment(req.WhatsAppID, id, req.Body)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Recipe not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add comment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added",
		"comment": comment,
	})
}

// GetComments lists the comments on a recipe
func (h *RecipeHandler) GetComments(c *fiber.Ctx) error {
	id, err := parseRecipeID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recipe ID",
		})
	}

	comments, err := h.store.GetComments(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load comments",
		})
	}

	return c.JSON(fiber.Map{
		"count":    len(comments),
		"comments": comments,
	})
}
