package outbound

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTwilioSenderPostsWhatsAppMessage(t *testing.T) {
	var captured struct {
		path string
		form map[string]string
		auth bool
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		captured.path = r.URL.Path
		captured.form = map[string]string{
			"From": r.PostFormValue("From"),
			"To":   r.PostFormValue("To"),
			"Body": r.PostFormValue("Body"),
		}
		user, pass, ok := r.BasicAuth()
		captured.auth = ok && user == "AC123" && pass == "secret"
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sender := NewTwilioSender("AC123", "secret", "+14155550100")
	sender.baseURL = server.URL

	err := sender.Send(context.Background(), "+254700000060", "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if captured.path != "/Accounts/AC123/Messages.json" {
		t.Fatalf("unexpected path %s", captured.path)
	}
	if !captured.auth {
		t.Fatalf("expected basic auth with account credentials")
	}
	if captured.form["From"] != "whatsapp:+14155550100" || captured.form["To"] != "whatsapp:+254700000060" {
		t.Fatalf("unexpected addressing: %v", captured.form)
	}
	if captured.form["Body"] != "hello" {
		t.Fatalf("unexpected body: %v", captured.form)
	}
}

func TestTwilioSenderSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "authentication failed"}`))
	}))
	defer server.Close()

	sender := NewTwilioSender("AC123", "wrong", "+14155550100")
	sender.baseURL = server.URL

	err := sender.Send(context.Background(), "+254700000060", "hello")
	if err == nil {
		t.Fatalf("expected error")
	}
}
