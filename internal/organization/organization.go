package organization

import (
	"errors"
	"time"

	orgDatamodel "github.com/frahmantamala/team-management/internal/core/datamodel/organization"
)

// Organization is a tenant grouping identified by a human-entered name.
// Names are compared case-insensitively after trimming; the stored name keeps
// the case the first signup entered.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrNameRequired = errors.New("organisation name cannot be empty")
	ErrNotFound     = errors.New("organization not found")
	ErrLookupFailed = errors.New("organization lookup failed")
	ErrCreateFailed = errors.New("organization creation failed")
)

// Repository defines the data access methods for organizations. There is no
// update or delete: rows are reused or created, never changed.
type Repository interface {
	// GetByName matches case-insensitively on the already-trimmed name.
	GetByName(name string) (*Organization, error)
	Create(org *Organization) error
	GetByIDs(ids []string) ([]*Organization, error)
}

func ToDataModel(o *Organization) *orgDatamodel.Organization {
	return &orgDatamodel.Organization{
		ID:        o.ID,
		Name:      o.Name,
		CreatedAt: o.CreatedAt,
	}
}

func FromDataModel(o *orgDatamodel.Organization) *Organization {
	return &Organization{
		ID:        o.ID,
		Name:      o.Name,
		CreatedAt: o.CreatedAt,
	}
}
