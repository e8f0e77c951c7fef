package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/sentra-ids/sentra/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func TestWebhookNotifier_PostsAlert(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := notify.NewWebhookNotifier(server.URL, testLogger())
	err := n.Notify(context.Background(), notify.Alert{
		Address:    "10.0.0.1",
		Username:   "admin",
		DetectedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)

	var payload struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Contains(t, payload.Content, "10.0.0.1")
	assert.Contains(t, payload.Content, "admin")
}

func TestWebhookNotifier_ErrorOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := notify.NewWebhookNotifier(server.URL, testLogger())
	err := n.Notify(context.Background(), notify.Alert{Address: "10.0.0.1"})

	assert.Error(t, err)
}

func TestWebhookNotifier_ErrorOnUnreachableSink(t *testing.T) {
	n := notify.NewWebhookNotifier("http://127.0.0.1:1/webhook", testLogger())
	err := n.Notify(context.Background(), notify.Alert{Address: "10.0.0.1"})

	assert.Error(t, err)
}
