package handlers

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sentra-ids/sentra/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAdminUnblock(t *testing.T) {
	var unblocked string
	mock := &MockDecisionService{
		UnblockFunc: func(address string) { unblocked = address },
	}
	handler := NewAdminHandler(mock)

	req := NewTestRequest(t, "POST", "/admin/unblock/203.0.113.5", nil)
	req = WithChiRouteContext(req, map[string]string{"address": "203.0.113.5"})
	w := httptest.NewRecorder()
	handler.Unblock(w, req)

	var resp UnblockResponse
	AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, []string{"203.0.113.5"}, resp.Unblocked)
	assert.Equal(t, "203.0.113.5", unblocked)
}

func TestAdminUnblock_MissingAddress(t *testing.T) {
	handler := NewAdminHandler(&MockDecisionService{})

	req := NewTestRequest(t, "POST", "/admin/unblock/", nil)
	req = WithChiRouteContext(req, map[string]string{})
	w := httptest.NewRecorder()
	handler.Unblock(w, req)

	AssertErrorResponse(t, w, 400, "bad_request")
}

func TestAdminUnblockAll(t *testing.T) {
	mock := &MockDecisionService{
		UnblockAllFunc: func() []string { return []string{"203.0.113.5", "198.51.100.7"} },
	}
	handler := NewAdminHandler(mock)

	req := NewTestRequest(t, "POST", "/admin/unblock-all", nil)
	w := httptest.NewRecorder()
	handler.UnblockAll(w, req)

	var resp UnblockResponse
	AssertJSONResponse(t, w, 200, &resp)
	assert.Len(t, resp.Unblocked, 2)
}

func TestAdminUnblockAll_EmptyBlocklist(t *testing.T) {
	handler := NewAdminHandler(&MockDecisionService{})

	req := NewTestRequest(t, "POST", "/admin/unblock-all", nil)
	w := httptest.NewRecorder()
	handler.UnblockAll(w, req)

	var resp UnblockResponse
	AssertJSONResponse(t, w, 200, &resp)
	assert.NotNil(t, resp.Unblocked)
	assert.Empty(t, resp.Unblocked)
}

func TestAdminBlocked(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 15, 0, 0, time.UTC)
	mock := &MockDecisionService{
		BlockedEntriesFunc: func() []models.BlockEntry {
			return []models.BlockEntry{{Address: "203.0.113.5", ExpiresAt: expiry}}
		},
	}
	handler := NewAdminHandler(mock)

	req := NewTestRequest(t, "GET", "/admin/blocked", nil)
	w := httptest.NewRecorder()
	handler.Blocked(w, req)

	var entries []models.BlockEntry
	AssertJSONResponse(t, w, 200, &entries)
	assert.Len(t, entries, 1)
	assert.Equal(t, "203.0.113.5", entries[0].Address)
	assert.True(t, entries[0].ExpiresAt.Equal(expiry))
}

func TestAdminSimulate(t *testing.T) {
	mock := &MockDecisionService{
		SimulateDetectionFunc: func(ctx context.Context, address, username string) (*models.LoginAttempt, error) {
			return &models.LoginAttempt{
				ID:       "id-1",
				Address:  address,
				Username: username,
				Verdict:  true,
				Outcome:  models.OutcomeFail,
			}, nil
		},
	}
	handler := NewAdminHandler(mock)

	req := NewTestRequest(t, "POST", "/admin/simulate", SimulateRequest{Address: "203.0.113.5"})
	w := httptest.NewRecorder()
	handler.Simulate(w, req)

	var attempt models.LoginAttempt
	AssertJSONResponse(t, w, 201, &attempt)
	assert.Equal(t, "203.0.113.5", attempt.Address)
	assert.Equal(t, "simulated", attempt.Username)
	assert.True(t, attempt.Verdict)
}

func TestAdminSimulate_InvalidAddress(t *testing.T) {
	called := false
	mock := &MockDecisionService{
		SimulateDetectionFunc: func(ctx context.Context, address, username string) (*models.LoginAttempt, error) {
			called = true
			return nil, nil
		},
	}
	handler := NewAdminHandler(mock)

	req := NewTestRequest(t, "POST", "/admin/simulate", SimulateRequest{Address: "not-an-ip"})
	w := httptest.NewRecorder()
	handler.Simulate(w, req)

	AssertErrorResponse(t, w, 400, "bad_request")
	assert.False(t, called)
}

func TestAdminSimulate_StoreUnavailable(t *testing.T) {
	mock := &MockDecisionService{
		SimulateDetectionFunc: func(ctx context.Context, address, username string) (*models.LoginAttempt, error) {
			return nil, models.ErrStoreUnavailable
		},
	}
	handler := NewAdminHandler(mock)

	req := NewTestRequest(t, "POST", "/admin/simulate", SimulateRequest{Address: "203.0.113.5"})
	w := httptest.NewRecorder()
	handler.Simulate(w, req)

	AssertErrorResponse(t, w, 503, "service_unavailable")
}

func TestAdminClearRecords(t *testing.T) {
	cleared := false
	mock := &MockDecisionService{
		ClearAllRecordsFunc: func(ctx context.Context) error {
			cleared = true
			return nil
		},
	}
	handler := NewAdminHandler(mock)

	req := NewTestRequest(t, "DELETE", "/admin/records", nil)
	w := httptest.NewRecorder()
	handler.ClearRecords(w, req)

	assert.Equal(t, 204, w.Code)
	assert.True(t, cleared)
}

func TestAdminClearRecords_StoreUnavailable(t *testing.T) {
	mock := &MockDecisionService{
		ClearAllRecordsFunc: func(ctx context.Context) error {
			return models.ErrStoreUnavailable
		},
	}
	handler := NewAdminHandler(mock)

	req := NewTestRequest(t, "DELETE", "/admin/records", nil)
	w := httptest.NewRecorder()
	handler.ClearRecords(w, req)

	AssertErrorResponse(t, w, 503, "service_unavailable")
}
