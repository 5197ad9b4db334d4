package profile

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	profileDatamodel "github.com/frahmantamala/team-management/internal/core/datamodel/profile"
)

const (
	// RolePending is the only role the provisioning workflow ever writes.
	// Real roles are assigned later by admin tooling.
	RolePending = "PENDING"

	StatusInactive int16 = 0
	StatusActive   int16 = 1
)

// Profile is the application-level record of a user inside an organization,
// distinct from the external auth identity it shares an id with.
type Profile struct {
	ID             string    `json:"id"`
	FullName       string    `json:"full_name"`
	FirstName      *string   `json:"first_name,omitempty"`
	LastName       *string   `json:"last_name,omitempty"`
	Email          string    `json:"email"`
	OrganizationID *string   `json:"organization_id"`
	Role           string    `json:"role"`
	Status         int16     `json:"status"`
	Category       string    `json:"category,omitempty"`
	Permissions    []string  `json:"permissions,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *Profile) IsActive() bool {
	return p.Status == StatusActive
}

func (p *Profile) HasPermission(permission string) bool {
	for _, perm := range p.Permissions {
		if perm == permission {
			return true
		}
	}
	return false
}

// NewProfile carries the signup-time identity fields into provisioning.
type NewProfile struct {
	ID             string
	Email          string
	FirstName      *string
	LastName       *string
	OrganizationID string
}

var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")
	ErrCreateFailed  = errors.New("profile creation failed")
)

// Repository defines data access for profiles. CreateIfAbsent is a
// conditional insert: it reports false without touching the row when the id
// already exists, which keeps the two racing signup triggers safe.
type Repository interface {
	CreateIfAbsent(p *Profile) (created bool, err error)
	GetByID(id string) (*Profile, error)
	GetByOrganization(orgID string) ([]*Profile, error)
	GetOutsideOrganization(orgID string) ([]*Profile, error)
}

// FullName joins the optional first and last names with a single space and
// trims the result, so a missing half never leaves stray whitespace.
func FullName(first, last *string) string {
	var f, l string
	if first != nil {
		f = *first
	}
	if last != nil {
		l = *last
	}
	return strings.TrimSpace(f + " " + l)
}

func ToDataModel(p *Profile) *profileDatamodel.Profile {
	m := &profileDatamodel.Profile{
		ID:        p.ID,
		FullName:  p.FullName,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.OrganizationID != nil {
		orgID := *p.OrganizationID
		m.OrganizationID = &orgID
	}
	if p.Category != "" {
		category := p.Category
		m.Category = &category
	}
	if len(p.Permissions) > 0 {
		if encoded, err := json.Marshal(p.Permissions); err == nil {
			s := string(encoded)
			m.Permissions = &s
		}
	}
	return m
}

func FromDataModel(m *profileDatamodel.Profile) *Profile {
	p := &Profile{
		ID:             m.ID,
		FullName:       m.FullName,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Email:          m.Email,
		OrganizationID: m.OrganizationID,
		Role:           m.Role,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Status != nil {
		p.Status = *m.Status
	}
	if m.Category != nil {
		p.Category = *m.Category
	}
	if m.Permissions != nil && *m.Permissions != "" {
		var perms []string
		if err := json.Unmarshal([]byte(*m.Permissions), &perms); err == nil {
			p.Permissions = perms
		}
	}
	return p
}
