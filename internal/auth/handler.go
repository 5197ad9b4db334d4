package auth

import (
	"context"
	"encoding/json"
	"net/http"

	errors "github.com/frahmantamala/team-management/internal"
	"github.com/frahmantamala/team-management/internal/transport"
	"github.com/frahmantamala/team-management/pkg/logger"
)

type ServiceAPI interface {
	SignUp(ctx context.Context, dto SignupDTO) (*SignupResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service           ServiceAPI
	dashboardRedirect string
}

func NewHandler(svc ServiceAPI, dashboardRedirect string) *Handler {
	if dashboardRedirect == "" {
		dashboardRedirect = "/dashboard"
	}
	return &Handler{
		BaseHandler:       transport.NewBaseHandler(logger.L()),
		Service:           svc,
		dashboardRedirect: dashboardRedirect,
	}
}

// Signup handles POST /auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.SignUp(r.Context(), dto)
	if err != nil {
		h.Logger.Error("signup failed", "error", err)
		if appErr, ok := errors.IsAppError(err); ok {
			h.WriteError(w, appErr.StatusCode, appErr.GetDetailedMessage())
			return
		}
		h.WriteError(w, http.StatusBadGateway, "signup failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// Callback handles GET /auth/callback. The session lives in the URL fragment
// and is processed client-side by the provider's browser library, so this
// endpoint only redirects to the dashboard.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.dashboardRedirect, http.StatusFound)
}
