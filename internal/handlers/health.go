package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recipehub/recipebot-backend/internal/services"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	Version  string
	Storage  string
	sessions *services.SessionManager
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, storage string, sessions *services.SessionManager) *HealthHandler {
	return &HealthHandler{
		Version:  version,
		Storage:  storage,
		sessions: sessions,
	}
}

// Check returns the health status of the service
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "OK",
		"service":         "Recipe Bot Backend",
		"version":         h.Version,
		"storage":         h.Storage,
		"active_sessions": h.sessions.ActiveCount(),
	})
}
