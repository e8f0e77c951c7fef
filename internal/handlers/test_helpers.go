package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sentra-ids/sentra/internal/models"
	"github.com/sentra-ids/sentra/internal/reports"
	"github.com/sentra-ids/sentra/internal/services"
	pkghttp "github.com/sentra-ids/sentra/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewLoginRequest creates a form-encoded login request the way clients
// submit credentials.
func NewLoginRequest(user, pass, remoteAddr string) *http.Request {
	form := url.Values{}
	form.Set("user", user)
	form.Set("pass", pass)

	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = remoteAddr
	return req
}

// WithChiRouteContext adds chi URL parameters to request context for testing
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockDecisionService backs the login, admin and reports handlers in tests.
type MockDecisionService struct {
	EvaluateFunc          func(ctx context.Context, sub services.LoginSubmission) (*models.Decision, error)
	UnblockFunc           func(address string)
	UnblockAllFunc        func() []string
	BlockedEntriesFunc    func() []models.BlockEntry
	SimulateDetectionFunc func(ctx context.Context, address, username string) (*models.LoginAttempt, error)
	ClearAllRecordsFunc   func(ctx context.Context) error
	AttemptHistoryFunc    func(ctx context.Context, address string, since time.Time) ([]models.LoginAttempt, error)
}

func (m *MockDecisionService) Evaluate(ctx context.Context, sub services.LoginSubmission) (*models.Decision, error) {
	if m.EvaluateFunc == nil {
		return &models.Decision{Status: models.StatusFail, Message: "Invalid credentials."}, nil
	}
	return m.EvaluateFunc(ctx, sub)
}

func (m *MockDecisionService) Unblock(address string) {
	if m.UnblockFunc != nil {
		m.UnblockFunc(address)
	}
}

func (m *MockDecisionService) UnblockAll() []string {
	if m.UnblockAllFunc == nil {
		return nil
	}
	return m.UnblockAllFunc()
}

func (m *MockDecisionService) BlockedEntries() []models.BlockEntry {
	if m.BlockedEntriesFunc == nil {
		return nil
	}
	return m.BlockedEntriesFunc()
}

func (m *MockDecisionService) SimulateDetection(ctx context.Context, address, username string) (*models.LoginAttempt, error) {
	if m.SimulateDetectionFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.SimulateDetectionFunc(ctx, address, username)
}

func (m *MockDecisionService) ClearAllRecords(ctx context.Context) error {
	if m.ClearAllRecordsFunc == nil {
		return nil
	}
	return m.ClearAllRecordsFunc(ctx)
}

func (m *MockDecisionService) AttemptHistory(ctx context.Context, address string, since time.Time) ([]models.LoginAttempt, error) {
	if m.AttemptHistoryFunc == nil {
		return nil, nil
	}
	return m.AttemptHistoryFunc(ctx, address, since)
}

// MockEventReader serves canned event file contents.
type MockEventReader struct {
	ReadFunc func(kind reports.EventKind) ([]byte, error)
}

func (m *MockEventReader) Read(kind reports.EventKind) ([]byte, error) {
	if m.ReadFunc == nil {
		return nil, nil
	}
	return m.ReadFunc(kind)
}
