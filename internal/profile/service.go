package profile

import (
	"log/slog"
	"time"
)

// OrganizationDirectory resolves organization ids to display names for the
// external-members view.
type OrganizationDirectory interface {
	NamesByID(ids []string) (map[string]string, error)
}

// UnknownOrganizationLabel is shown when an external member's organization id
// cannot be resolved to a name.
const UnknownOrganizationLabel = "Unknown organization"

// Service handles profile provisioning and the dashboard read views.
type Service struct {
	repo   Repository
	orgs   OrganizationDirectory
	logger *slog.Logger
}

func NewService(repo Repository, orgs OrganizationDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		orgs:   orgs,
		logger: logger,
	}
}

// Provision inserts exactly one profile row for a newly created account.
// The role is always PENDING and both timestamps are stamped at insert time.
// A second call for the same id returns ErrAlreadyExists and never mutates
// the stored row.
func (s *Service) Provision(np NewProfile) (*Profile, error) {
	now := time.Now()
	orgID := np.OrganizationID

	p := &Profile{
		ID:             np.ID,
		FullName:       FullName(np.FirstName, np.LastName),
		FirstName:      np.FirstName,
		LastName:       np.LastName,
		Email:          np.Email,
		OrganizationID: &orgID,
		Role:           RolePending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.CreateIfAbsent(p)
	if err != nil {
		s.logger.Error("profile creation failed", "profile_id", np.ID, "error", err)
		return nil, ErrCreateFailed
	}
	if !created {
		s.logger.Warn("profile already provisioned, leaving existing row untouched",
			"profile_id", np.ID)
		return nil, ErrAlreadyExists
	}

	s.logger.Info("profile created",
		"profile_id", p.ID,
		"organization_id", orgID,
		"role", p.Role)

	return p, nil
}

// GetByID fetches the caller's own profile. Not-found is an error state, not
// a silent empty profile.
func (s *Service) GetByID(id string) (*Profile, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to get profile", "profile_id", id, "error", err)
		return nil, err
	}
	return p, nil
}

// TeamStats are derived in memory from the fetched member list; no
// server-side aggregation is used.
type TeamStats struct {
	Total         int `json:"total"`
	Active        int `json:"active"`
	Inactive      int `json:"inactive"`
	PendingRole   int `json:"pending_role"`
	DistinctRoles int `json:"distinct_roles"`
}

// TeamMembers returns all profiles sharing orgID, newest first, with
// aggregate stats.
func (s *Service) TeamMembers(orgID string) ([]*Profile, TeamStats, error) {
	members, err := s.repo.GetByOrganization(orgID)
	if err != nil {
		s.logger.Error("failed to get team members", "organization_id", orgID, "error", err)
		return nil, TeamStats{}, err
	}

	stats := TeamStats{Total: len(members)}
	roles := make(map[string]struct{})
	for _, m := range members {
		if m.IsActive() {
			stats.Active++
		} else {
			stats.Inactive++
		}
		if m.Role == RolePending {
			stats.PendingRole++
		}
		roles[m.Role] = struct{}{}
	}
	stats.DistinctRoles = len(roles)

	return members, stats, nil
}

// ExternalMember pairs a profile from another organization with that
// organization's display name.
type ExternalMember struct {
	Profile          *Profile `json:"profile"`
	OrganizationName string   `json:"organization_name"`
}

type ExternalStats struct {
	Total                 int `json:"total"`
	DistinctOrganizations int `json:"distinct_organizations"`
}

// ExternalMembers returns profiles whose organization is set and differs from
// orgID, batch-resolving each distinct organization id to its name. Ids the
// directory cannot resolve fall back to a placeholder label.
func (s *Service) ExternalMembers(orgID string) ([]*ExternalMember, ExternalStats, error) {
	profiles, err := s.repo.GetOutsideOrganization(orgID)
	if err != nil {
		s.logger.Error("failed to get external members", "organization_id", orgID, "error", err)
		return nil, ExternalStats{}, err
	}

	distinct := make(map[string]struct{})
	ids := make([]string, 0)
	for _, p := range profiles {
		if p.OrganizationID == nil {
			continue
		}
		if _, seen := distinct[*p.OrganizationID]; !seen {
			distinct[*p.OrganizationID] = struct{}{}
			ids = append(ids, *p.OrganizationID)
		}
	}

	names, err := s.orgs.NamesByID(ids)
	if err != nil {
		// partial failure: show members with the placeholder rather than erroring the view
		s.logger.Warn("organization name resolution failed, using placeholder labels", "error", err)
		names = map[string]string{}
	}

	members := make([]*ExternalMember, 0, len(profiles))
	for _, p := range profiles {
		name := UnknownOrganizationLabel
		if p.OrganizationID != nil {
			if resolved, ok := names[*p.OrganizationID]; ok {
				name = resolved
			}
		}
		members = append(members, &ExternalMember{Profile: p, OrganizationName: name})
	}

	stats := ExternalStats{
		Total:                 len(members),
		DistinctOrganizations: len(distinct),
	}

	return members, stats, nil
}
