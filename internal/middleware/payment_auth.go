package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireStripeSignature rejects payment webhook calls that carry no
// Stripe-Signature header before the body is parsed. The signature itself is
// verified against the webhook secret in the payment service.
func RequireStripeSignature() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Stripe-Signature") == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing Stripe signature",
			})
		}
		return c.Next()
	}
}
