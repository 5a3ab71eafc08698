package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/chamabot/chamabot/internal/assistant"
	"github.com/chamabot/chamabot/internal/balance"
	"github.com/chamabot/chamabot/internal/contribution"
	"github.com/chamabot/chamabot/internal/logging"
	"github.com/chamabot/chamabot/internal/member"
	"github.com/chamabot/chamabot/internal/reminder"
	"github.com/chamabot/chamabot/internal/router"
)

type noopCompleter struct{}

func (noopCompleter) Complete(context.Context, []assistant.Message) (string, error) {
	return "ok", nil
}

type captureSender struct {
	sent []string
}

func (s *captureSender) Send(_ context.Context, destination, _ string) error {
	s.sent = append(s.sent, destination)
	return nil
}

func setupApp(t *testing.T) (*fiber.App, *member.Service, *captureSender) {
	t.Helper()

	march := func() time.Time { return time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC) }

	members := member.NewService(member.NewMemoryRepository())
	contributions := contribution.NewService(contribution.NewMemoryRepository()).WithClock(march)
	expected := balance.NewExpected(500, 1000, 1500)
	delegate := assistant.NewDelegate(noopCompleter{}, members, contributions, time.Second)
	sender := &captureSender{}

	intentRouter := router.New(members, contributions, delegate, expected, logging.Discard())
	job := reminder.NewJob(members, contributions, expected, sender, logging.Discard()).WithClock(march)

	handler := NewHandler(intentRouter, job)

	app := fiber.New()
	app.Post("/webhook", handler.Inbound)
	app.Post("/send-reminders", handler.SendReminders)
	return app, members, sender
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()

	var payload map[string]string
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return resp.StatusCode, payload
}

func TestInboundMissingPhone(t *testing.T) {
	app, _, _ := setupApp(t)

	status, payload := postJSON(t, app, "/webhook", `{"message": "hello"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if payload["reply"] != "⚠️ Missing phone number." {
		t.Fatalf("unexpected reply %q", payload["reply"])
	}
}

func TestInboundResolvesFromField(t *testing.T) {
	app, members, _ := setupApp(t)

	status, payload := postJSON(t, app, "/webhook", `{"from": "+254700000050", "message": "jane wanjiku"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(payload["reply"], "registered") {
		t.Fatalf("unexpected reply %q", payload["reply"])
	}

	if _, err := members.Lookup(context.Background(), "+254700000050"); err != nil {
		t.Fatalf("member not stored: %v", err)
	}
}

func TestInboundContributionRoundTrip(t *testing.T) {
	app, members, _ := setupApp(t)

	if _, _, err := members.Register(context.Background(), "+254700000051", "Jane Wanjiku"); err != nil {
		t.Fatalf("register: %v", err)
	}

	status, payload := postJSON(t, app, "/webhook", `{"phone": "+254700000051", "message": "I paid 500 for welfare"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if payload["reply"] != "✅ Got KES 500 for welfare. Thanks Jane Wanjiku!" {
		t.Fatalf("unexpected reply %q", payload["reply"])
	}
}

func TestSendRemindersEndpoint(t *testing.T) {
	app, members, sender := setupApp(t)

	if _, _, err := members.Register(context.Background(), "+254700000052", "John Otieno"); err != nil {
		t.Fatalf("register: %v", err)
	}

	status, payload := postJSON(t, app, "/send-reminders", ``)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if payload["status"] != "success" || payload["message"] != "Reminders sent." {
		t.Fatalf("unexpected payload %v", payload)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "+254700000052" {
		t.Fatalf("expected one reminder to the member, got %v", sender.sent)
	}
}
