package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/aims_backend/config"
)

type Organization struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Ref       string    `gorm:"size:255;index" json:"ref"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o Organization) GetId() int {
	return o.ID
}

func (o Organization) GetDefault(id int) interface{} {
	return Organization{ID: id}
}

func GetOrganizationById(ctx context.Context, id int) (*Organization, error) {
	db := config.GetDB()
	var result Organization
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, normalizeNotFound(err)
	}
	return &result, nil
}

// ParticipatingOrganization links an organization to an activity with an IATI
// role. Only the funding role feeds the suggestion engine.
type ParticipatingOrganization struct {
	ID             int              `gorm:"primary_key" json:"id"`
	ActivityId     int              `gorm:"index;not null" json:"activity_id"`
	OrganizationId int              `gorm:"index;not null" json:"organization_id"`
	RoleType       OrganizationRole `gorm:"not null" json:"role_type"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

// GetActivityIdsFundedBy lists activities where the organization participates
// with the funding role.
func GetActivityIdsFundedBy(ctx context.Context, organizationId int) ([]int, error) {
	db := config.GetDB()
	var ids []int
	if err := db.WithContext(ctx).Model(&ParticipatingOrganization{}).
		Where("organization_id = ? AND role_type = ?", organizationId, OrganizationRoleFunding).
		Pluck("activity_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
