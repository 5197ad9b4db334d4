package postgres

import (
	profileDatamodel "github.com/frahmantamala/team-management/internal/core/datamodel/profile"
	"github.com/frahmantamala/team-management/internal/profile"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository implements profile.Repository using GORM
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) profile.Repository {
	return &ProfileRepository{db: db}
}

// CreateIfAbsent inserts the profile unless a row with the same id already
// exists. The conflict clause makes concurrent signup triggers safe: the
// losing insert affects zero rows and the stored profile stays untouched.
func (r *ProfileRepository) CreateIfAbsent(p *profile.Profile) (bool, error) {
	m := profile.ToDataModel(p)
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ProfileRepository) GetByID(id string) (*profile.Profile, error) {
	var m profileDatamodel.Profile
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, profile.ErrNotFound
		}
		return nil, err
	}
	return profile.FromDataModel(&m), nil
}

// GetByOrganization returns all profiles in orgID, newest first.
func (r *ProfileRepository) GetByOrganization(orgID string) ([]*profile.Profile, error) {
	var models []*profileDatamodel.Profile
	err := r.db.Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return fromDataModels(models), nil
}

// GetOutsideOrganization returns profiles that belong to some other
// organization. Rows with no organization at all are excluded.
func (r *ProfileRepository) GetOutsideOrganization(orgID string) ([]*profile.Profile, error) {
	var models []*profileDatamodel.Profile
	err := r.db.Where("organization_id IS NOT NULL AND organization_id <> ?", orgID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return fromDataModels(models), nil
}

func fromDataModels(models []*profileDatamodel.Profile) []*profile.Profile {
	profiles := make([]*profile.Profile, 0, len(models))
	for _, m := range models {
		profiles = append(profiles, profile.FromDataModel(m))
	}
	return profiles
}
