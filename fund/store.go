package fund

import (
	"context"
	"errors"

	"bitbucket.org/mmdatafocus/aims_backend/config"
	"bitbucket.org/mmdatafocus/aims_backend/middlewares"
	"bitbucket.org/mmdatafocus/aims_backend/models"
	"bitbucket.org/mmdatafocus/aims_backend/utils"
)

// The stores below are the read-only boundary to data owned by the editing
// system. The service never writes through them.

type ActivityStore interface {
	GetActivity(ctx context.Context, id int) (*models.Activity, error)
	GetActivities(ctx context.Context, ids []int) ([]*models.Activity, error)
	ListActivities(ctx context.Context) ([]*models.Activity, error)
}

type TransactionStore interface {
	GetByActivity(ctx context.Context, activityId int) ([]*models.Transaction, error)
	GetByActivities(ctx context.Context, activityIds []int) ([]*models.Transaction, error)
	// GetReferencing returns transactions on any activity whose provider or
	// receiver cross-reference names the given activity.
	GetReferencing(ctx context.Context, activityId int) ([]*models.Transaction, error)
}

type RelationshipStore interface {
	GetEdges(ctx context.Context, activityId int) ([]*models.ActivityRelationship, error)
}

type ParticipationStore interface {
	GetFundedActivityIds(ctx context.Context, organizationId int) ([]int, error)
}

type SectorStore interface {
	GetByActivities(ctx context.Context, activityIds []int) ([]*models.ActivitySector, error)
}

type OrganizationStore interface {
	GetOrganization(ctx context.Context, id int) (*models.Organization, error)
}

// GORM-backed implementations over the shared connection.

type gormActivityStore struct{}

func (gormActivityStore) GetActivity(ctx context.Context, id int) (*models.Activity, error) {
	activity, err := models.GetActivityById(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return activity, nil
}

// GetActivities goes through the request-scoped dataloader when one is
// installed, so repeated child lookups within a request batch into one query.
func (gormActivityStore) GetActivities(ctx context.Context, ids []int) ([]*models.Activity, error) {
	activities, errs := middlewares.GetActivities(ctx, ids)
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return activities, nil
}

func (gormActivityStore) ListActivities(ctx context.Context) ([]*models.Activity, error) {
	db := config.GetDB()
	var results []*models.Activity
	if err := db.WithContext(ctx).
		Select("id", "title", "status", "is_pooled_fund", "reporting_organization_id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type gormTransactionStore struct{}

func (gormTransactionStore) GetByActivity(ctx context.Context, activityId int) ([]*models.Transaction, error) {
	return models.GetTransactionsByActivityId(ctx, activityId)
}

func (gormTransactionStore) GetByActivities(ctx context.Context, activityIds []int) ([]*models.Transaction, error) {
	return models.GetTransactionsByActivityIds(ctx, activityIds)
}

func (gormTransactionStore) GetReferencing(ctx context.Context, activityId int) ([]*models.Transaction, error) {
	return models.GetTransactionsReferencingActivity(ctx, activityId)
}

type gormRelationshipStore struct{}

func (gormRelationshipStore) GetEdges(ctx context.Context, activityId int) ([]*models.ActivityRelationship, error) {
	return models.GetRelationshipEdges(ctx, activityId)
}

type gormParticipationStore struct{}

func (gormParticipationStore) GetFundedActivityIds(ctx context.Context, organizationId int) ([]int, error) {
	return models.GetActivityIdsFundedBy(ctx, organizationId)
}

type gormSectorStore struct{}

func (gormSectorStore) GetByActivities(ctx context.Context, activityIds []int) ([]*models.ActivitySector, error) {
	return models.GetSectorsByActivityIds(ctx, activityIds)
}

type gormOrganizationStore struct{}

func (gormOrganizationStore) GetOrganization(ctx context.Context, id int) (*models.Organization, error) {
	org, err := middlewares.GetOrganization(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return org, nil
}
