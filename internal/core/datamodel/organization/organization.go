package organization

import "time"

// Organization is the persistence shape of a tenant grouping. Rows are only
// ever inserted by the provisioning workflow; nothing in this service updates
// or deletes them.
type Organization struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Organization) TableName() string {
	return "organizations"
}
