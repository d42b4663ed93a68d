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

	"github.com/ecert-oman/ecert-backend/database"
	"github.com/ecert-oman/ecert-backend/internal/config"
	"github.com/ecert-oman/ecert-backend/internal/handlers"
	"github.com/ecert-oman/ecert-backend/internal/jobs"
	"github.com/ecert-oman/ecert-backend/internal/models"
	"github.com/ecert-oman/ecert-backend/internal/routes"
	"github.com/ecert-oman/ecert-backend/internal/services"
	"github.com/ecert-oman/ecert-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	// Initialize storage
	var store storage.Store
	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		if err := database.DB.AutoMigrate(
			&models.Session{},
			&models.PendingPayment{},
		); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
	}
	storage.SetStore(store)

	replies := services.DefaultReplies()
	catalog := services.DefaultCatalog()
	media := services.NewCloudinaryService(cfg.CloudinaryCloudName)
	audit := services.NewAuditLog(cfg.AuditFile)

	// Initialize messenger
	var messenger services.Messenger
	var err error
	if cfg.MessagingProvider == "twilio" {
		messenger, err = services.NewTwilioMessenger(map[string]string{
			replies.WelcomeTemplate:     cfg.TwilioWelcomeSID,
			replies.CertificateTemplate: cfg.TwilioGiftSID,
		})
	} else {
		messenger, err = services.NewMetaMessenger(
			cfg.WhatsAppAPIURL, cfg.WhatsAppAPIToken, cfg.TemplateLanguage, replies.CertificateTemplate)
	}
	if err != nil {
		log.Fatal("Failed to initialize messenger:", err)
	}
	log.Printf("✅ Messaging provider initialized: %s", cfg.MessagingProvider)

	// Initialize services
	stripeClient := services.NewStripeClient(cfg.StripeSecretKey, cfg.SuccessURL, cfg.CancelURL)
	paymentService := services.NewPaymentService(
		store, messenger, stripeClient, catalog, media, audit, replies, cfg.StripeWebhookSecret)
	engine := services.NewEngine(
		store, messenger, paymentService, catalog, media, audit, replies, cfg.EnableCustomMessage)
	broadcastService := services.NewBroadcastService(messenger)

	// Start the idle-session / abandoned-payment sweeper
	sweeper := jobs.NewSweeperJob(store, cfg.SweepInterval, cfg.SessionMaxIdle, cfg.PendingPaymentTTL)
	sweeper.Start()

	log.Println("✅ All services initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "E-Certificates Backend v1.0.0",
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
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		statusCode := 200

		if !cfg.UseMemoryStore && database.DB != nil {
			sqlDB, err := database.DB.DB()
			if err != nil || sqlDB.Ping() != nil {
				status = "unhealthy"
				statusCode = 503
			}
		}

		return c.Status(statusCode).JSON(fiber.Map{
			"status": status,
			"services": fiber.Map{
				"database":  status == "healthy",
				"messaging": cfg.MessagingProvider,
				"catalog":   catalog.Size(),
			},
		})
	})

	// Setup routes
	whatsappHandler := handlers.NewWhatsAppHandler(engine, cfg.VerifyToken)
	paymentHandler := handlers.NewPaymentHandler(paymentService, replies)
	adminHandler := handlers.NewAdminHandler(broadcastService)
	routes.SetupRoutes(app, cfg, whatsappHandler, paymentHandler, adminHandler)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		sweeper.Stop()
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 E-Certificates Backend starting on port %s", cfg.Port)
	log.Printf("📊 Storage: %s", storageType(cfg))
	log.Printf("📱 Messaging: %s", cfg.MessagingProvider)
	log.Printf("📋 Certificates: %d in catalog", catalog.Size())
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.Port))
}

func storageType(cfg *config.Config) string {
	if cfg.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}
