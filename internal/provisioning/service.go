package provisioning

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/team-management/internal/core/events"
	"github.com/frahmantamala/team-management/internal/organization"
	"github.com/frahmantamala/team-management/internal/profile"
)

// SignupUser carries the signup-time identity fields from either trigger.
// The metadata is captured once at signup and never re-read afterward.
type SignupUser struct {
	ID               string
	Email            string
	FirstName        *string
	LastName         *string
	OrganisationName string
}

// Result reports what the workflow produced.
type Result struct {
	OrganizationID      string
	OrganizationCreated bool
	ProfileID           string
}

type OrganizationResolver interface {
	ResolveOrCreate(name string) (org *organization.Organization, created bool, err error)
}

type ProfileProvisioner interface {
	Provision(np profile.NewProfile) (*profile.Profile, error)
}

// Orchestrator sequences organization resolution then profile insertion after
// an account is created. Both the client-side signup path and the auth
// provider's webhook call this same implementation; only the adapters differ.
type Orchestrator struct {
	orgs     OrganizationResolver
	profiles ProfileProvisioner
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewOrchestrator(orgs OrganizationResolver, profiles ProfileProvisioner, eventBus *events.EventBus, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		orgs:     orgs,
		profiles: profiles,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Provision runs the linear workflow: resolve-or-create the organization,
// then insert the profile. The first error aborts; there is no retry and no
// compensating delete, so an organization created just before a failed
// profile insert stays in place with zero members.
func (o *Orchestrator) Provision(ctx context.Context, u SignupUser) (*Result, error) {
	if strings.TrimSpace(u.OrganisationName) == "" {
		return nil, organization.ErrNameRequired
	}

	org, orgCreated, err := o.orgs.ResolveOrCreate(u.OrganisationName)
	if err != nil {
		o.publishFailed(ctx, u, "resolve_organization", err)
		return nil, err
	}

	p, err := o.profiles.Provision(profile.NewProfile{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		OrganizationID: org.ID,
	})
	if err != nil {
		o.publishFailed(ctx, u, "insert_profile", err)
		return nil, err
	}

	o.logger.Info("post-signup provisioning complete",
		"profile_id", p.ID,
		"organization_id", org.ID)

	if o.eventBus != nil {
		if orgCreated {
			o.eventBus.Publish(ctx, events.NewOrganizationCreatedEvent(org.ID, org.Name))
		}
		o.eventBus.Publish(ctx, events.NewProfileProvisionedEvent(p.ID, org.ID, u.Email, orgCreated))
	}

	return &Result{
		OrganizationID:      org.ID,
		OrganizationCreated: orgCreated,
		ProfileID:           p.ID,
	}, nil
}

func (o *Orchestrator) publishFailed(ctx context.Context, u SignupUser, stage string, err error) {
	o.logger.Error("post-signup provisioning failed",
		"user_id", u.ID,
		"stage", stage,
		"error", err)
	if o.eventBus != nil {
		o.eventBus.Publish(ctx, events.NewProvisioningFailedEvent(u.ID, u.OrganisationName, stage, err.Error()))
	}
}
