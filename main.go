package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/recipehub/recipebot-backend/database"
	"github.com/recipehub/recipebot-backend/internal/config"
	"github.com/recipehub/recipebot-backend/internal/handlers"
	"github.com/recipehub/recipebot-backend/internal/jobs"
	"github.com/recipehub/recipebot-backend/internal/models"
	"github.com/recipehub/recipebot-backend/internal/routes"
	"github.com/recipehub/recipebot-backend/internal/services"
	"github.com/recipehub/recipebot-backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize storage
	var store storage.Store

	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Recipe{},
			&models.User{},
			&models.Favorite{},
			&models.Comment{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Initialize Twilio service
	var twilioService *services.TwilioService
	if cfg.TwilioConfigured() {
		twilioService, err = services.NewTwilioService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
		if err != nil {
			log.Fatal("Failed to initialize Twilio service:", err)
		}
		log.Println("✅ Twilio service initialized")
	} else {
		log.Println("⚠️  Twilio credentials not found - outbound WhatsApp disabled")
	}

	// Set global instances
	storage.SetStore(store)
	services.SetTwilioService(twilioService)

	// Initialize services
	sessionManager := services.NewSessionManager()
	services.SetSessionManager(sessionManager)

	mediaStore := services.NewLocalMediaStore(cfg.MediaDir, cfg.TwilioAccountSID, cfg.TwilioAuthToken)
	engine := services.NewDialogEngine(store, sessionManager, mediaStore)

	replier := handlers.NewTwilioReplier(twilioService, cfg.PublicBaseURL)
	whatsappHandler := handlers.NewWhatsAppHandler(engine, replier)

	// Optional idle session expiry
	cleanupJob := jobs.NewCleanupJob(sessionManager, cfg.SessionTTL)
	cleanupJob.Start()

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Recipe Bot Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Setup routes
	routes.SetupRoutes(app, cfg, store, whatsappHandler)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		cleanupJob.Stop()
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 Recipe Bot Backend starting on port %s", cfg.Port)
	log.Printf("📊 Storage: %s", storageType(cfg))
	log.Printf("📱 WhatsApp: %s", whatsappStatus(cfg))
	log.Printf("🖼  Media dir: %s", cfg.MediaDir)
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.Port))
}

func storageType(cfg *config.Config) string {
	if cfg.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func whatsappStatus(cfg *config.Config) string {
	if !cfg.TwilioConfigured() {
		return "Not configured"
	}
	return "Configured"
}
