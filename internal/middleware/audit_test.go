package middleware

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestAuditLogsWebhookMessageID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	app := fiber.New()
	app.Use(RequestID(), Audit(logger))
	app.Post("/webhook", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(fiber.MethodPost, "/webhook", nil)
	req.Header.Set(messageIDHeader, "SM1234567890")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	logged := buf.String()
	if !strings.Contains(logged, `"message_id":"SM1234567890"`) {
		t.Fatalf("expected message id in audit log, got %s", logged)
	}
	if !strings.Contains(logged, `"request_id"`) {
		t.Fatalf("expected request id in audit log, got %s", logged)
	}
}

func TestAuditOmitsMessageIDWhenAbsent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	app := fiber.New()
	app.Use(Audit(logger))
	app.Post("/webhook", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/webhook", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if strings.Contains(buf.String(), "message_id") {
		t.Fatalf("unexpected message id attribute: %s", buf.String())
	}
}
