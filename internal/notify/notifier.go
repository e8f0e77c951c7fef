// Package notify delivers best-effort intrusion alerts. Delivery failures
// are logged and swallowed; they never affect the login response.
package notify

import (
	"context"
	"log/slog"
	"time"
)

// Alert describes one positive detection.
type Alert struct {
	Address    string    `json:"address"`
	Username   string    `json:"username"`
	DetectedAt time.Time `json:"detected_at"`
}

// Notifier is a fire-and-forget alert sink.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// LogNotifier writes alerts to the structured log. The fallback sink when
// no outbound channel is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, alert Alert) error {
	n.logger.Warn("intrusion detected",
		slog.String("address", alert.Address),
		slog.String("username", alert.Username),
		slog.Time("detected_at", alert.DetectedAt),
	)
	return nil
}
