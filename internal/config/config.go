package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings for the service.
type Config struct {
	Port        string
	VerifyToken string

	// WhatsApp (Meta Cloud API)
	WhatsAppAPIURL   string // e.g. https://graph.facebook.com/v21.0/<phone_number_id>/messages
	WhatsAppAPIToken string
	MetaAppSecret    string
	TemplateLanguage string

	// Twilio (alternative messaging provider)
	MessagingProvider  string // "meta" or "twilio"
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	TwilioWelcomeSID   string // content SID for the welcome menu template
	TwilioGiftSID      string // content SID for the certificate template

	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string
	SuccessURL          string
	CancelURL           string

	// Cloudinary
	CloudinaryCloudName string

	// Storage
	UseMemoryStore bool

	// Audit / broadcast spreadsheets
	AuditFile string

	// Conversation behaviour
	EnableCustomMessage bool

	// Session lifecycle
	SweepInterval     time.Duration
	SessionMaxIdle    time.Duration
	PendingPaymentTTL time.Duration

	DisableWebhookValidation bool
}

// Load reads .env (when present) and builds the Config from the environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		if err = godotenv.Load("environments/.env.development"); err != nil {
			log.Println("⚠️  No .env file found - using environment variables")
		}
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		VerifyToken: getEnv("VERIFY_TOKEN", "mysecrettoken"),

		WhatsAppAPIURL:   os.Getenv("WHATSAPP_API_URL"),
		WhatsAppAPIToken: os.Getenv("WHATSAPP_API_TOKEN"),
		MetaAppSecret:    os.Getenv("META_APP_SECRET"),
		TemplateLanguage: getEnv("TEMPLATE_LANGUAGE", "ar"),

		MessagingProvider:  getEnv("MESSAGING_PROVIDER", "meta"),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),
		TwilioWelcomeSID:   os.Getenv("TWILIO_CONTENT_SID_WELCOME"),
		TwilioGiftSID:      os.Getenv("TWILIO_CONTENT_SID_GIFT"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		SuccessURL:          getEnv("PAYMENT_SUCCESS_URL", "https://e-certificates.example.com/payment-success"),
		CancelURL:           getEnv("PAYMENT_CANCEL_URL", "https://e-certificates.example.com/payment-cancel"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),

		UseMemoryStore: getEnvBool("USE_MEMORY_STORE", false),

		AuditFile: getEnv("AUDIT_FILE", "deliveries.xlsx"),

		EnableCustomMessage: getEnvBool("ENABLE_CUSTOM_MESSAGE", true),

		SweepInterval:     getEnvDuration("SWEEP_INTERVAL", 30*time.Second),
		SessionMaxIdle:    getEnvDuration("SESSION_MAX_IDLE", 5*time.Minute),
		PendingPaymentTTL: getEnvDuration("PENDING_PAYMENT_TTL", 24*time.Hour),

		DisableWebhookValidation: getEnvBool("DISABLE_WEBHOOK_VALIDATION", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using default %v", key, v, fallback)
		return fallback
	}
	return d
}
