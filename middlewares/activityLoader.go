package middlewares

import (
	"context"

	"bitbucket.org/mmdatafocus/aims_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type activityReader struct {
	db *gorm.DB
}

func (r *activityReader) getActivities(ctx context.Context, ids []int) []*dataloader.Result[*models.Activity] {
	var results []models.Activity
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.Activity](len(ids), err)
	}

	return generateLoaderResults(results, ids)
}

func GetActivity(ctx context.Context, id int) (*models.Activity, error) {
	loaders := For(ctx)
	if loaders == nil {
		return models.GetActivityById(ctx, id)
	}
	return loaders.activityLoader.Load(ctx, id)()
}

func GetActivities(ctx context.Context, ids []int) ([]*models.Activity, []error) {
	loaders := For(ctx)
	if loaders == nil {
		activities, err := models.GetActivitiesByIds(ctx, ids)
		if err != nil {
			return nil, []error{err}
		}
		return activities, nil
	}
	return loaders.activityLoader.LoadMany(ctx, ids)()
}
