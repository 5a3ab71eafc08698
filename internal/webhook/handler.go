// Package webhook exposes the HTTP surface of the chat flows.
package webhook

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/chamabot/chamabot/internal/reminder"
	"github.com/chamabot/chamabot/internal/router"
)

// Handler binds the intent router and reminder job to fiber routes.
type Handler struct {
	router *router.Router
	job    *reminder.Job
}

// NewHandler constructs a webhook handler.
func NewHandler(r *router.Router, job *reminder.Job) *Handler {
	return &Handler{router: r, job: job}
}

type inboundRequest struct {
	Phone   string `json:"phone"`
	From    string `json:"from"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Inbound processes one webhook event and replies with the routed flow's text.
func (h *Handler) Inbound(c *fiber.Ctx) error {
	var req inboundRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	phone := req.Phone
	if phone == "" {
		phone = req.From
	}

	reply, err := h.router.Handle(c.UserContext(), router.Inbound{
		Phone:   strings.TrimSpace(phone),
		Name:    strings.TrimSpace(req.Name),
		Message: strings.TrimSpace(req.Message),
	})
	if err != nil {
		if errors.Is(err, router.ErrMissingIdentity) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"reply": router.ReplyMissingPhone})
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{"reply": reply})
}

// SendReminders triggers the reminder sweep synchronously.
func (h *Handler) SendReminders(c *fiber.Ctx) error {
	if _, err := h.job.Run(c.UserContext()); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Reminders sent."})
}
