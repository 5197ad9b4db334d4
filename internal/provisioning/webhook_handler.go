package provisioning

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/team-management/internal/organization"
	"github.com/frahmantamala/team-management/internal/profile"
	"github.com/frahmantamala/team-management/internal/transport"
)

// WebhookHandler is the server-triggered adapter: the auth provider fires a
// callback on user creation, authorized with the service role credential.
type WebhookHandler struct {
	*transport.BaseHandler
	orchestrator ProvisionerAPI
	logger       *slog.Logger
}

type ProvisionerAPI interface {
	Provision(ctx context.Context, u SignupUser) (*Result, error)
}

func NewWebhookHandler(baseHandler *transport.BaseHandler, orchestrator ProvisionerAPI, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler:  baseHandler,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

type SignupWebhookRequest struct {
	Record *SignupRecord `json:"record"`
}

type SignupRecord struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata SignupMetadata `json:"user_metadata"`
}

// SignupMetadata mirrors the free-form metadata captured at signup.
// OrganisationName is a pointer so a missing key and a present-but-blank
// value produce different client errors.
type SignupMetadata struct {
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	OrganisationName *string `json:"organisation_name"`
}

type SignupWebhookResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	OrganizationID string `json:"organization_id"`
}

// HandleSignupWebhook handles POST /api/auth/signup-webhook
func (h *WebhookHandler) HandleSignupWebhook(w http.ResponseWriter, r *http.Request) {
	var req SignupWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("invalid signup webhook request", "error", err)
		h.WriteErrorResponse(w, http.StatusBadRequest, "No user data provided")
		return
	}

	if req.Record == nil {
		h.logger.Error("signup webhook missing record")
		h.WriteErrorResponse(w, http.StatusBadRequest, "No user data provided")
		return
	}

	record := req.Record
	if record.UserMetadata.OrganisationName == nil {
		h.logger.Error("signup webhook missing organisation_name", "user_id", record.ID)
		h.WriteErrorResponse(w, http.StatusBadRequest, "Missing organisation_name")
		return
	}
	if strings.TrimSpace(*record.UserMetadata.OrganisationName) == "" {
		h.logger.Error("signup webhook blank organisation_name", "user_id", record.ID)
		h.WriteErrorResponse(w, http.StatusBadRequest, "Organisation name cannot be empty")
		return
	}

	h.logger.Info("received signup webhook",
		"user_id", record.ID,
		"email", record.Email)

	result, err := h.orchestrator.Provision(r.Context(), SignupUser{
		ID:               record.ID,
		Email:            record.Email,
		FirstName:        record.UserMetadata.FirstName,
		LastName:         record.UserMetadata.LastName,
		OrganisationName: *record.UserMetadata.OrganisationName,
	})
	if err != nil {
		h.writeProvisioningError(w, record.ID, err)
		return
	}

	h.logger.Info("signup webhook processed",
		"user_id", record.ID,
		"organization_id", result.OrganizationID,
		"organization_created", result.OrganizationCreated)

	h.WriteJSON(w, http.StatusOK, SignupWebhookResponse{
		Success:        true,
		Message:        "signup provisioned",
		OrganizationID: result.OrganizationID,
	})
}

func (h *WebhookHandler) writeProvisioningError(w http.ResponseWriter, userID string, err error) {
	h.logger.Error("signup webhook provisioning failed", "user_id", userID, "error", err)

	switch err {
	case organization.ErrNameRequired:
		h.WriteErrorResponse(w, http.StatusBadRequest, "Organisation name cannot be empty")
	case organization.ErrLookupFailed:
		h.WriteErrorResponse(w, http.StatusInternalServerError, "Organization lookup failed")
	case organization.ErrCreateFailed:
		h.WriteErrorResponse(w, http.StatusInternalServerError, "Organization creation failed")
	case profile.ErrAlreadyExists:
		// webhook redelivery or the client path won the race; nothing was mutated
		h.WriteErrorResponse(w, http.StatusConflict, "Profile already exists")
	case profile.ErrCreateFailed:
		h.WriteErrorResponse(w, http.StatusInternalServerError, "Profile creation failed")
	default:
		h.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *WebhookHandler) WriteErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]string{
		"error": message,
	}
	h.WriteJSON(w, statusCode, response)
}
