package notification

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendRunSummary(t *testing.T) {
	var received DiscordMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := SendRunSummary(server.URL, 42, "out.csv"); err != nil {
		t.Fatal(err)
	}
	if len(received.Embeds) != 1 {
		t.Fatalf("got %d embeds, want 1", len(received.Embeds))
	}
	if !strings.Contains(received.Embeds[0].Description, "42") {
		t.Errorf("description %q should mention the row count", received.Embeds[0].Description)
	}
}

func TestSendRunFailure_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	if err := SendRunFailure(server.URL, errors.New("boom")); err == nil {
		t.Fatal("expected an error on a non-2xx response")
	}
}

func TestSend_NoWebhookConfigured(t *testing.T) {
	if err := SendRunSummary("", 1, "out.csv"); err != nil {
		t.Fatalf("missing webhook should be a no-op, got %v", err)
	}
	if err := SendRunFailure("", errors.New("boom")); err != nil {
		t.Fatalf("missing webhook should be a no-op, got %v", err)
	}
}
