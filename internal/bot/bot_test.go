package bot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/oraclo-news/oraclo/internal/config"
	"github.com/oraclo-news/oraclo/internal/observability"
	"github.com/oraclo-news/oraclo/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(&config.BotConfig{}, nil, nil, testLogger())
	if !errors.Is(err, types.ErrNotConfigured) {
		t.Errorf("want ErrNotConfigured, got %v", err)
	}
}

func TestNewPollTimeoutSeconds(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want int
	}{
		{"configured", 45 * time.Second, 45},
		{"zero falls back", 0, 30},
		{"sub-second falls back", 500 * time.Millisecond, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(&config.BotConfig{Token: "t", PollTimeout: tt.in}, nil, nil, testLogger())
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if b.pollTimeout != tt.want {
				t.Errorf("pollTimeout = %d, want %d", b.pollTimeout, tt.want)
			}
		})
	}
}

func testBot(t *testing.T, handler http.HandlerFunc) *Bot {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	b, err := New(&config.BotConfig{Token: "test-token", PollTimeout: time.Second},
		nil, observability.NewMetrics(testLogger()), testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b.apiBase = srv.URL
	return b
}

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any
	b := testBot(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		io.WriteString(w, `{"ok":true,"result":{}}`)
	})

	if err := b.SendMessage(context.Background(), 42, "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if gotPath != "/bottest-token/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotPayload["chat_id"].(float64) != 42 {
		t.Errorf("chat_id = %v", gotPayload["chat_id"])
	}
	if gotPayload["text"] != "hello" {
		t.Errorf("text = %v", gotPayload["text"])
	}
}

func TestCallReportsAPIError(t *testing.T) {
	b := testBot(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"description":"chat not found"}`)
	})
	err := b.SendMessage(context.Background(), 1, "x")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("want API error surfaced, got %v", err)
	}
}

func TestHandleCommandHelp(t *testing.T) {
	var sent string
	b := testBot(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		sent, _ = payload["text"].(string)
		io.WriteString(w, `{"ok":true,"result":{}}`)
	})

	b.HandleCommand(context.Background(), 7, "/help")
	if !strings.Contains(sent, "/subscribe") {
		t.Errorf("help reply missing commands: %q", sent)
	}

	b.HandleCommand(context.Background(), 7, "/bogus")
	if !strings.Contains(sent, "Unknown command") {
		t.Errorf("unknown command reply = %q", sent)
	}
}

func TestHandleCommandStripsBotMention(t *testing.T) {
	var sent string
	b := testBot(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		sent, _ = payload["text"].(string)
		io.WriteString(w, `{"ok":true,"result":{}}`)
	})

	b.HandleCommand(context.Background(), 7, "/help@oraclo_bot")
	if !strings.Contains(sent, "/latest") {
		t.Errorf("mention-suffixed command not handled: %q", sent)
	}
}
