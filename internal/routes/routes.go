package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/recipehub/recipebot-backend/internal/config"
	"github.com/recipehub/recipebot-backend/internal/handlers"
	"github.com/recipehub/recipebot-backend/internal/middleware"
	"github.com/recipehub/recipebot-backend/internal/services"
	"github.com/recipehub/recipebot-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, cfg *config.Config, store storage.Store, whatsapp *handlers.WhatsAppHandler) {

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the Recipe Bot Backend!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":        "/health",
				"api":           "/api",
				"webhook":       "/webhook/whatsapp",
				"test_whatsapp": "/test/whatsapp",
				"media":         "/media",
			},
		})
	})

	// Health check
	storageMode := "postgres"
	if cfg.UseMemoryStore {
		storageMode = "memory"
	}
	health := handlers.NewHealthHandler("1.0.0", storageMode, services.GetSessionManager())
	app.Get("/health", health.Check)

	// Stored attachments, served for outbound photo messages
	app.Static("/media", cfg.MediaDir)

	// API routes
	api := app.Group("/api")

	recipes := handlers.NewRecipeHandler(store)
	api.Get("/recipes", recipes.SearchRecipes)
	api.Get("/recipes/:id", recipes.GetRecipe)
	api.Post("/recipes/:id/favorites", recipes.AddFavorite)
	api.Get("/recipes/:id/comments", recipes.GetComments)
	api.Post("/recipes/:id/comments", recipes.AddComment)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	// WhatsApp webhook - signature validation can be disabled for ngrok
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		webhooks.Post("/whatsapp", whatsapp.HandleWebhook)
	} else {
		webhooks.Post("/whatsapp", middleware.ValidateTwilioSignature(cfg.TwilioAuthToken), whatsapp.HandleWebhook)
	}

	// ========== TEST ROUTES (Development Only) ==========
	app.Post("/test/whatsapp", whatsapp.HandleTestWebhook)
}
