package profile

import "time"

// Profile is the persistence shape of an application user. The id equals the
// auth provider's user id, so the row is one-to-one with the external
// identity. Status is left to its column default at insert; role, category
// and permissions are assigned later by admin tooling.
type Profile struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	FullName       string    `gorm:"column:full_name" json:"full_name"`
	FirstName      *string   `gorm:"column:first_name" json:"first_name"`
	LastName       *string   `gorm:"column:last_name" json:"last_name"`
	Email          string    `gorm:"column:email;not null" json:"email"`
	OrganizationID *string   `gorm:"column:organization_id" json:"organization_id"`
	Role           string    `gorm:"column:role" json:"role"`
	Status         *int16    `gorm:"column:status;default:0" json:"status"`
	Category       *string   `gorm:"column:category" json:"category"`
	Permissions    *string   `gorm:"column:permissions" json:"permissions"` // JSON-encoded list of capability strings
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
