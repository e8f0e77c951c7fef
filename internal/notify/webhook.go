package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// WebhookNotifier posts alerts as JSON to a chat webhook (Discord-style
// "content" payload).
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

func NewWebhookNotifier(url string, logger *slog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type webhookPayload struct {
	Content string `json:"content"`
}

func (n *WebhookNotifier) Notify(ctx context.Context, alert Alert) error {
	payload := webhookPayload{
		Content: fmt.Sprintf("INTRUSION DETECTED\nAddress: %s\nUsername: %s\nTime: %s",
			alert.Address, alert.Username, alert.DetectedAt.UTC().Format(time.RFC3339)),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}

	n.logger.Info("alert delivered", slog.String("sink", "webhook"), slog.String("address", alert.Address))
	return nil
}
