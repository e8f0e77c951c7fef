package logger

import (
	"context"
	"log/slog"
	"time"
)

// DetectionEvent records the outcome of one scored login attempt.
type DetectionEvent struct {
	Address            string
	Username           string
	Verdict            bool
	Outcome            string
	RecentAttemptCount int
}

// AuditLogger provides structured audit logging for the decision path.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// LogDetection logs one scored attempt. Positive verdicts log at warn.
func (al *AuditLogger) LogDetection(event DetectionEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "detection"),
		slog.String("address", event.Address),
		slog.String("username", SanitizedUsername(event.Username)),
		slog.Bool("verdict", event.Verdict),
		slog.String("outcome", event.Outcome),
		slog.Int("recent_attempt_count", event.RecentAttemptCount),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	level := slog.LevelInfo
	if event.Verdict {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(context.Background(), level, "audit", attrs...)
}

// LogBlockAction logs block/unblock operations on the blocklist.
func (al *AuditLogger) LogBlockAction(action, address string, expiresAt *time.Time) {
	attrs := []slog.Attr{
		slog.String("audit_type", "blocklist"),
		slog.String("event_type", action),
		slog.String("address", address),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if expiresAt != nil {
		attrs = append(attrs, slog.String("expires_at", expiresAt.UTC().Format(time.RFC3339)))
	}

	al.logger.LogAttrs(context.Background(), slog.LevelInfo, "audit", attrs...)
}

// LogOperatorAction logs debug/operator hooks (simulate, wipe).
func (al *AuditLogger) LogOperatorAction(action string, metadata map[string]string) {
	attrs := []slog.Attr{
		slog.String("audit_type", "operator"),
		slog.String("event_type", action),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	for key, val := range metadata {
		attrs = append(attrs, slog.String(key, val))
	}

	al.logger.LogAttrs(context.Background(), slog.LevelInfo, "audit", attrs...)
}
