package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ecert-oman/ecert-backend/internal/services"
)

// AdminHandler exposes operator endpoints.
type AdminHandler struct {
	broadcast *services.BroadcastService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(broadcast *services.BroadcastService) *AdminHandler {
	return &AdminHandler{broadcast: broadcast}
}

// BroadcastRequest asks for templateName to be sent to every number in the
// PhoneNumber column of the given workbook.
type BroadcastRequest struct {
	TemplateName string `json:"template_name"`
	File         string `json:"file"`
}

// HandleBroadcast runs an XLSX-driven template broadcast.
func (h *AdminHandler) HandleBroadcast(c *fiber.Ctx) error {
	var req BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid broadcast request",
		})
	}
	if req.TemplateName == "" || req.File == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "template_name and file are required",
		})
	}

	sent, err := h.broadcast.SendBroadcast(req.TemplateName, req.File)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"template": req.TemplateName,
		"sent":     sent,
	})
}
