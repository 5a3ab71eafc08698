package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/chamabot/chamabot/internal/logging"
)

func setupTestApp(t *testing.T) (*fiber.App, *int, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Use(Dedup(cache, time.Minute, logging.Discard()))

	hits := 0
	app.Post("/webhook", func(c *fiber.Ctx) error {
		hits++
		return c.JSON(fiber.Map{"reply": "ok"})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}

	return app, &hits, cleanup
}

func postWebhook(t *testing.T, app *fiber.App, messageID string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/webhook", strings.NewReader(`{}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if messageID != "" {
		req.Header.Set(messageIDHeader, messageID)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode, string(body)
}

func TestDedupPassesThroughWithoutMessageID(t *testing.T) {
	app, hits, cleanup := setupTestApp(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		if status, _ := postWebhook(t, app, ""); status != fiber.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
	}
	if *hits != 2 {
		t.Fatalf("expected handler to run twice, got %d", *hits)
	}
}

func TestDedupReplaysCachedResponse(t *testing.T) {
	app, hits, cleanup := setupTestApp(t)
	defer cleanup()

	status, first := postWebhook(t, app, "SM123")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	status, second := postWebhook(t, app, "SM123")
	if status != fiber.StatusOK {
		t.Fatalf("expected replayed 200, got %d", status)
	}
	if first != second {
		t.Fatalf("replayed body differs: %q vs %q", first, second)
	}
	if *hits != 1 {
		t.Fatalf("handler must run once for a redelivered message, got %d", *hits)
	}
}

func TestDedupDistinctMessageIDs(t *testing.T) {
	app, hits, cleanup := setupTestApp(t)
	defer cleanup()

	postWebhook(t, app, "SM1")
	postWebhook(t, app, "SM2")

	if *hits != 2 {
		t.Fatalf("distinct ids must both reach the handler, got %d", *hits)
	}
}
