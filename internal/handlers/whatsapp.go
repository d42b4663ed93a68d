package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ecert-oman/ecert-backend/internal/services"
)

// WhatsAppHandler handles the Meta webhook verification handshake and
// incoming message notifications.
type WhatsAppHandler struct {
	engine      *services.Engine
	verifyToken string
}

// NewWhatsAppHandler creates a new WhatsApp handler
func NewWhatsAppHandler(engine *services.Engine, verifyToken string) *WhatsAppHandler {
	return &WhatsAppHandler{
		engine:      engine,
		verifyToken: verifyToken,
	}
}

// WebhookPayload is the Meta Cloud API webhook envelope
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []WebhookMessage `json:"messages"`
}

type WebhookMessage struct {
	From        string       `json:"from"`
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Text        *TextBody    `json:"text,omitempty"`
	Interactive *Interactive `json:"interactive,omitempty"`
}

type TextBody struct {
	Body string `json:"body"`
}

type Interactive struct {
	Type        string       `json:"type"`
	ButtonReply *ButtonReply `json:"button_reply,omitempty"`
}

type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// HandleVerify answers the one-time subscription handshake: echo the
// challenge when the verify token matches.
func (h *WhatsAppHandler) HandleVerify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" {
		log.Println("Webhook verification failed: missing mode or token")
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if mode == "subscribe" && token == h.verifyToken {
		log.Println("✅ Webhook verified successfully")
		return c.Status(fiber.StatusOK).SendString(challenge)
	}

	log.Printf("Webhook verification failed: mode=%s", mode)
	return c.SendStatus(fiber.StatusForbidden)
}

// HandleWebhook processes incoming WhatsApp message notifications. Status
// updates and non-message changes are acknowledged and skipped.
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload WebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	if payload.Object != "whatsapp_business_account" {
		return c.SendStatus(fiber.StatusOK)
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, message := range change.Value.Messages {
				input := extractInput(message)
				log.Printf("📱 WhatsApp message from %s: %s", message.From, input)

				if err := h.engine.HandleMessage(message.From, input); err != nil {
					log.Printf("Error processing message from %s: %v", message.From, err)
				}
			}
		}
	}

	// Meta expects a quick 200 regardless of processing outcome
	return c.SendStatus(fiber.StatusOK)
}

// extractInput prefers an interactive button reply id over free text.
func extractInput(message WebhookMessage) string {
	if message.Interactive != nil && message.Interactive.ButtonReply != nil {
		return message.Interactive.ButtonReply.ID
	}
	if message.Text != nil {
		return message.Text.Body
	}
	return ""
}
