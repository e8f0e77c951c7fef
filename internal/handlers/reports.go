package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sentra-ids/sentra/internal/models"
	"github.com/sentra-ids/sentra/internal/reports"
	pkghttp "github.com/sentra-ids/sentra/pkg/http"
)

// HistoryServiceInterface is the attempt-history slice of the decision
// service the reports surface reads from.
type HistoryServiceInterface interface {
	AttemptHistory(ctx context.Context, address string, since time.Time) ([]models.LoginAttempt, error)
}

// EventReader reads the raw per-kind event files.
type EventReader interface {
	Read(kind reports.EventKind) ([]byte, error)
}

// ReportsHandler serves the dashboard-facing read surface: recorded attempts
// per address and the raw event files.
type ReportsHandler struct {
	history HistoryServiceInterface
	events  EventReader
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(history HistoryServiceInterface, events EventReader) *ReportsHandler {
	return &ReportsHandler{history: history, events: events}
}

// defaultHistoryLookback bounds unfiltered attempt queries.
const defaultHistoryLookback = 24 * time.Hour

// Attempts handles GET /reports/attempts/{address}
// Accepts optional query param ?since=RFC3339 (default: last 24h).
func (h *ReportsHandler) Attempts(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if address == "" {
		pkghttp.WriteBadRequest(w, "Address is required")
		return
	}

	since := time.Now().Add(-defaultHistoryLookback)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			pkghttp.WriteBadRequest(w, "since must be an RFC3339 timestamp")
			return
		}
		since = parsed
	}

	attempts, err := h.history.AttemptHistory(r.Context(), address, since)
	if err != nil {
		pkghttp.WriteServiceUnavailable(w, "Attempt store unavailable")
		return
	}
	if attempts == nil {
		attempts = []models.LoginAttempt{}
	}

	pkghttp.WriteJSON(w, http.StatusOK, attempts)
}

// Events handles GET /reports/events/{kind}
// Serves the raw event file as text; the dashboard parses the lines itself.
func (h *ReportsHandler) Events(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !reports.ValidKind(kind) {
		pkghttp.WriteNotFound(w, "Unknown event kind")
		return
	}

	data, err := h.events.Read(reports.EventKind(kind))
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to read event log")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
