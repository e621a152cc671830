package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/aims_backend/config"
)

// ActivitySector is a declared DAC sector on an activity.
type ActivitySector struct {
	ID         int       `gorm:"primary_key" json:"id"`
	ActivityId int       `gorm:"index;not null" json:"activity_id"`
	Code       string    `gorm:"size:10;index;not null" json:"code"`
	Name       string    `gorm:"size:255" json:"name"`
	Percentage *int      `json:"percentage"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func GetSectorsByActivityIds(ctx context.Context, activityIds []int) ([]*ActivitySector, error) {
	db := config.GetDB()
	var results []*ActivitySector
	if len(activityIds) == 0 {
		return results, nil
	}
	if err := db.WithContext(ctx).
		Where("activity_id IN ?", activityIds).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
