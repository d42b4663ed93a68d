package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ecert-oman/ecert-backend/internal/config"
	"github.com/ecert-oman/ecert-backend/internal/handlers"
	"github.com/ecert-oman/ecert-backend/internal/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, cfg *config.Config,
	whatsapp *handlers.WhatsAppHandler, payment *handlers.PaymentHandler, admin *handlers.AdminHandler) {

	// ========== WEBHOOK ROUTES ==========

	// One-time subscription handshake from Meta
	app.Get("/webhook", whatsapp.HandleVerify)

	// WhatsApp messages - signature validation can be disabled for local
	// testing behind ngrok
	if cfg.DisableWebhookValidation {
		println("⚠️  WhatsApp webhook validation DISABLED")
		app.Post("/whatsapp-messages", whatsapp.HandleWebhook)
	} else {
		app.Post("/whatsapp-messages", middleware.ValidateMetaSignature(cfg.MetaAppSecret), whatsapp.HandleWebhook)
	}

	// Stripe payment events
	app.Post("/stripe-webhook", middleware.RequireStripeSignature(), payment.HandleWebhook)

	// ========== PAYMENT REDIRECT PAGES ==========
	app.Get("/payment-success", payment.HandleSuccess)
	app.Get("/payment-cancel", payment.HandleCancel)

	// ========== ADMIN ROUTES ==========
	adminGroup := app.Group("/admin")
	adminGroup.Post("/broadcast", admin.HandleBroadcast)
}
