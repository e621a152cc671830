package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/aims_backend/config"
)

// ActivityRelationship is a directed edge between two activities. Type 1 means
// the related activity is a declared child; type 2 means it is a declared
// parent. Both directions contribute to a fund's resolved child set.
type ActivityRelationship struct {
	ID                int              `gorm:"primary_key" json:"id"`
	ActivityId        int              `gorm:"index;not null" json:"activity_id"`
	RelatedActivityId int              `gorm:"index;not null" json:"related_activity_id"`
	RelationshipType  RelationshipType `gorm:"not null" json:"relationship_type"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

// GetRelationshipEdges fetches every edge touching the given activity in
// either direction.
func GetRelationshipEdges(ctx context.Context, activityId int) ([]*ActivityRelationship, error) {
	db := config.GetDB()
	var results []*ActivityRelationship
	if err := db.WithContext(ctx).
		Where("activity_id = ? OR related_activity_id = ?", activityId, activityId).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
