package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sentra-ids/sentra/internal/models"
	"github.com/sentra-ids/sentra/internal/services"
	pkghttp "github.com/sentra-ids/sentra/pkg/http"
)

// DecisionServiceInterface defines the scoring contract the login handler
// depends on.
type DecisionServiceInterface interface {
	Evaluate(ctx context.Context, sub services.LoginSubmission) (*models.Decision, error)
}

// LoginHandler handles the scored login endpoint.
type LoginHandler struct {
	service  DecisionServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewLoginHandler creates a new LoginHandler
func NewLoginHandler(service DecisionServiceInterface, ipConfig *pkghttp.IPConfig) *LoginHandler {
	return &LoginHandler{
		service:  service,
		ipConfig: ipConfig,
	}
}

// loginForm carries the submitted credential fields. Clients post
// application/x-www-form-urlencoded with "user" and "pass" fields.
// An empty password is a legal submission; its zero length is itself
// a scoring signal.
type loginForm struct {
	Username string `validate:"required,max=256"`
	Password string `validate:"max=1024"`
}

// LoginResponse is the body returned for every scored attempt.
type LoginResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Login handles POST /login. Every request is scored before the credential
// outcome is reported: success maps to 200, a failed credential to 401, and
// a blocked client to 403 without any scoring or persistence.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid form body")
		return
	}

	form := loginForm{
		Username: r.PostFormValue("user"),
		Password: r.PostFormValue("pass"),
	}
	if err := ValidateRequest(form); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	sub := services.LoginSubmission{
		Address:  pkghttp.ExtractClientIP(r, h.ipConfig),
		Username: form.Username,
		Password: form.Password,
	}

	decision, err := h.service.Evaluate(r.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Invalid request")
		case errors.Is(err, models.ErrStoreUnavailable):
			pkghttp.WriteServiceUnavailable(w, "Attempt store unavailable")
		default:
			pkghttp.WriteInternalError(w, "Scoring failed")
		}
		return
	}

	pkghttp.WriteJSON(w, statusCode(decision.Status), LoginResponse{
		Status:  string(decision.Status),
		Message: decision.Message,
	})
}

func statusCode(status models.DecisionStatus) int {
	switch status {
	case models.StatusSuccess:
		return http.StatusOK
	case models.StatusBlocked:
		return http.StatusForbidden
	default:
		return http.StatusUnauthorized
	}
}
