package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sentra-ids/sentra/internal/models"
	pkghttp "github.com/sentra-ids/sentra/pkg/http"
)

// AdminServiceInterface defines the operator hooks the admin surface exposes.
type AdminServiceInterface interface {
	Unblock(address string)
	UnblockAll() []string
	BlockedEntries() []models.BlockEntry
	SimulateDetection(ctx context.Context, address, username string) (*models.LoginAttempt, error)
	ClearAllRecords(ctx context.Context) error
}

// AdminHandler handles operator HTTP requests.
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// SimulateRequest represents the request body for injecting a synthetic
// detection.
type SimulateRequest struct {
	Address  string `json:"address" validate:"required,ip"`
	Username string `json:"username" validate:"max=256"`
}

// UnblockResponse reports which addresses an unblock action freed.
type UnblockResponse struct {
	Unblocked []string `json:"unblocked"`
}

// Unblock handles POST /admin/unblock/{address}
func (h *AdminHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if address == "" {
		pkghttp.WriteBadRequest(w, "Address is required")
		return
	}

	h.service.Unblock(address)
	pkghttp.WriteJSON(w, http.StatusOK, UnblockResponse{Unblocked: []string{address}})
}

// UnblockAll handles POST /admin/unblock-all
func (h *AdminHandler) UnblockAll(w http.ResponseWriter, r *http.Request) {
	addresses := h.service.UnblockAll()
	if addresses == nil {
		addresses = []string{}
	}
	pkghttp.WriteJSON(w, http.StatusOK, UnblockResponse{Unblocked: addresses})
}

// Blocked handles GET /admin/blocked
func (h *AdminHandler) Blocked(w http.ResponseWriter, r *http.Request) {
	entries := h.service.BlockedEntries()
	if entries == nil {
		entries = []models.BlockEntry{}
	}
	pkghttp.WriteJSON(w, http.StatusOK, entries)
}

// Simulate handles POST /admin/simulate
func (h *AdminHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}
	if req.Username == "" {
		req.Username = "simulated"
	}

	attempt, err := h.service.SimulateDetection(r.Context(), req.Address, req.Username)
	if err != nil {
		if errors.Is(err, models.ErrStoreUnavailable) {
			pkghttp.WriteServiceUnavailable(w, "Attempt store unavailable")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to inject detection")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, attempt)
}

// ClearRecords handles DELETE /admin/records
func (h *AdminHandler) ClearRecords(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearAllRecords(r.Context()); err != nil {
		if errors.Is(err, models.ErrStoreUnavailable) {
			pkghttp.WriteServiceUnavailable(w, "Attempt store unavailable")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to clear records")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
