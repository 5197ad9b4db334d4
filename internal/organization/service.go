package organization

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service resolves human-entered organisation names to organization rows.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ResolveOrCreate returns the organization matching name, creating it when no
// row exists yet, and reports whether a new row was created. The name is
// trimmed before any store access and matched case-insensitively, so "Acme"
// and "ACME" resolve to the same row. A blank name is rejected without
// touching the store.
func (s *Service) ResolveOrCreate(name string) (*Organization, bool, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, false, ErrNameRequired
	}

	org, err := s.repo.GetByName(trimmed)
	if err == nil {
		s.logger.Debug("organization resolved to existing row",
			"organization_id", org.ID,
			"name", org.Name)
		return org, false, nil
	}
	if err != ErrNotFound {
		// not-found drives the create branch; anything else aborts the workflow
		s.logger.Error("organization lookup failed", "name", trimmed, "error", err)
		return nil, false, ErrLookupFailed
	}

	org = &Organization{
		ID:        uuid.NewString(),
		Name:      trimmed,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(org); err != nil {
		s.logger.Error("organization creation failed", "name", trimmed, "error", err)
		return nil, false, ErrCreateFailed
	}

	s.logger.Info("organization created",
		"organization_id", org.ID,
		"name", org.Name)

	return org, true, nil
}

// NamesByID resolves a batch of organization ids to their display names.
// Ids that cannot be resolved are simply absent from the result map; callers
// substitute a placeholder label.
func (s *Service) NamesByID(ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	orgs, err := s.repo.GetByIDs(ids)
	if err != nil {
		s.logger.Error("batch organization lookup failed", "error", err, "count", len(ids))
		return nil, ErrLookupFailed
	}

	names := make(map[string]string, len(orgs))
	for _, org := range orgs {
		names[org.ID] = org.Name
	}
	return names, nil
}
