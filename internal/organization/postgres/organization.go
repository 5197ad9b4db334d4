package postgres

import (
	orgDatamodel "github.com/frahmantamala/team-management/internal/core/datamodel/organization"
	"github.com/frahmantamala/team-management/internal/organization"
	"gorm.io/gorm"
)

// OrganizationRepository implements organization.Repository using GORM
type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) organization.Repository {
	return &OrganizationRepository{db: db}
}

// GetByName looks up an organization by name, case-insensitively. The single
// comparison policy here backs every call site that resolves or creates.
func (r *OrganizationRepository) GetByName(name string) (*organization.Organization, error) {
	var m orgDatamodel.Organization
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, organization.ErrNotFound
		}
		return nil, err
	}
	return organization.FromDataModel(&m), nil
}

func (r *OrganizationRepository) Create(org *organization.Organization) error {
	m := organization.ToDataModel(org)
	if err := r.db.Create(m).Error; err != nil {
		return err
	}
	*org = *organization.FromDataModel(m)
	return nil
}

func (r *OrganizationRepository) GetByIDs(ids []string) ([]*organization.Organization, error) {
	var models []*orgDatamodel.Organization
	if err := r.db.Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}

	orgs := make([]*organization.Organization, 0, len(models))
	for _, m := range models {
		orgs = append(orgs, organization.FromDataModel(m))
	}
	return orgs, nil
}
