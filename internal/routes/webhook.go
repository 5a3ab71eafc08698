package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chamabot/chamabot/internal/webhook"
)

// RegisterWebhookRoutes wires the conversational webhook and the reminder trigger.
func RegisterWebhookRoutes(app *fiber.App, h *webhook.Handler, rateLimiter fiber.Handler) {
	app.Post("/webhook", rateLimiter, h.Inbound)
	app.Post("/send-reminders", h.SendReminders)
}
