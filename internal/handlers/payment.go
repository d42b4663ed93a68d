package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ecert-oman/ecert-backend/internal/services"
)

// PaymentHandler handles Stripe webhook notifications and the minimal
// redirect pages checkout sends users back to.
type PaymentHandler struct {
	payments *services.PaymentService
	replies  services.Replies
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *services.PaymentService, replies services.Replies) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		replies:  replies,
	}
}

// HandleWebhook verifies and processes a Stripe event. A bad signature is
// rejected with 400 and no side effects; everything after verification is
// acknowledged with 200 so Stripe stops retrying.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	event, err := h.payments.VerifyWebhook(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("Stripe webhook rejected: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Webhook signature verification failed",
		})
	}

	if err := h.payments.ProcessEvent(event); err != nil {
		// Processing errors are logged, not retried via non-200: the
		// pending record is already consumed or still intact either way
		log.Printf("Stripe webhook processing error: %v", err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// HandleSuccess is the minimal page users land on after paying.
func (h *PaymentHandler) HandleSuccess(c *fiber.Ctx) error {
	log.Println("User redirected to payment-success page")
	return c.SendString(h.replies.SuccessPage)
}

// HandleCancel is the minimal page users land on after cancelling checkout.
func (h *PaymentHandler) HandleCancel(c *fiber.Ctx) error {
	log.Println("User redirected to payment-cancel page")
	return c.SendString(h.replies.CancelPage)
}
