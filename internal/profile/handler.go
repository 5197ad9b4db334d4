package profile

import (
	"net/http"

	"github.com/frahmantamala/team-management/internal"
	"github.com/frahmantamala/team-management/internal/transport"
	"github.com/frahmantamala/team-management/pkg/logger"
)

type ServiceAPI interface {
	GetByID(id string) (*Profile, error)
	TeamMembers(orgID string) ([]*Profile, TeamStats, error)
	ExternalMembers(orgID string) ([]*ExternalMember, ExternalStats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

// GetOwnProfile handles GET /profiles/me
func (h *Handler) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	p, err := h.Service.GetByID(userID)
	if err != nil {
		if err == ErrNotFound {
			h.Logger.Warn("own profile not found", "user_id", userID)
			h.WriteError(w, http.StatusNotFound, "profile not found")
			return
		}
		h.Logger.Error("failed to load own profile", "user_id", userID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

// GetTeamMembers handles GET /profiles/team
func (h *Handler) GetTeamMembers(w http.ResponseWriter, r *http.Request) {
	own, ok := h.ownProfile(w, r)
	if !ok {
		return
	}
	if own.OrganizationID == nil {
		h.WriteError(w, http.StatusNotFound, "profile has no organization")
		return
	}

	members, stats, err := h.Service.TeamMembers(*own.OrganizationID)
	if err != nil {
		h.Logger.Error("failed to load team members", "organization_id", *own.OrganizationID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, TeamResponse{Members: members, Stats: stats})
}

// GetExternalMembers handles GET /profiles/external
func (h *Handler) GetExternalMembers(w http.ResponseWriter, r *http.Request) {
	own, ok := h.ownProfile(w, r)
	if !ok {
		return
	}
	if own.OrganizationID == nil {
		h.WriteError(w, http.StatusNotFound, "profile has no organization")
		return
	}

	members, stats, err := h.Service.ExternalMembers(*own.OrganizationID)
	if err != nil {
		h.Logger.Error("failed to load external members", "organization_id", *own.OrganizationID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, ExternalResponse{Members: members, Stats: stats})
}

func (h *Handler) ownProfile(w http.ResponseWriter, r *http.Request) (*Profile, bool) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}

	own, err := h.Service.GetByID(userID)
	if err != nil {
		if err == ErrNotFound {
			h.WriteError(w, http.StatusNotFound, "profile not found")
			return nil, false
		}
		h.Logger.Error("failed to load own profile", "user_id", userID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return own, true
}
