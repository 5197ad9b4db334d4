package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/team-management/internal/authprovider"
	"github.com/frahmantamala/team-management/internal/provisioning"
)

type AuthProvider interface {
	SignUp(ctx context.Context, req authprovider.SignUpRequest) (*authprovider.SignUpResult, error)
}

type Provisioner interface {
	Provision(ctx context.Context, u provisioning.SignupUser) (*provisioning.Result, error)
}

// Service is the client-triggered signup path: create the account with the
// hosted auth provider, then provision best-effort.
type Service struct {
	provider    AuthProvider
	provisioner Provisioner
	logger      *slog.Logger
}

func NewService(provider AuthProvider, provisioner Provisioner, logger *slog.Logger) *Service {
	return &Service{
		provider:    provider,
		provisioner: provisioner,
		logger:      logger,
	}
}

// SignupResult is what the dashboard gets back. EmailConfirmationRequired is
// set when the provider withheld a session pending confirmation.
type SignupResult struct {
	User                      *authprovider.User    `json:"user"`
	Session                   *authprovider.Session `json:"session,omitempty"`
	EmailConfirmationRequired bool                  `json:"email_confirmation_required"`
}

// SignUp creates the account and then runs post-signup provisioning.
// Provisioning failure is logged but never fails the signup: the account
// already exists at the provider either way, and the webhook path can still
// complete provisioning later.
func (s *Service) SignUp(ctx context.Context, dto SignupDTO) (*SignupResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	res, err := s.provider.SignUp(ctx, authprovider.SignUpRequest{
		Email:    dto.Email,
		Password: dto.Password,
		Data: authprovider.SignupMetadata{
			FirstName:        dto.FirstName,
			LastName:         dto.LastName,
			OrganisationName: dto.OrganisationName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("signup failed: %w", err)
	}

	if _, err := s.provisioner.Provision(ctx, provisioning.SignupUser{
		ID:               res.User.ID,
		Email:            res.User.Email,
		FirstName:        dto.FirstName,
		LastName:         dto.LastName,
		OrganisationName: dto.OrganisationName,
	}); err != nil {
		// best effort only: the user stays authenticated without a profile
		// until the webhook path completes provisioning
		s.logger.Error("post-signup provisioning failed on client path",
			"user_id", res.User.ID,
			"error", err)
	}

	return &SignupResult{
		User:                      res.User,
		Session:                   res.Session,
		EmailConfirmationRequired: res.Session == nil,
	}, nil
}
