package middlewares

import (
	"context"

	"bitbucket.org/mmdatafocus/aims_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type organizationReader struct {
	db *gorm.DB
}

func (r *organizationReader) getOrganizations(ctx context.Context, ids []int) []*dataloader.Result[*models.Organization] {
	var results []models.Organization
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.Organization](len(ids), err)
	}

	return generateLoaderResults(results, ids)
}

func GetOrganization(ctx context.Context, id int) (*models.Organization, error) {
	loaders := For(ctx)
	if loaders == nil {
		return models.GetOrganizationById(ctx, id)
	}
	return loaders.organizationLoader.Load(ctx, id)()
}
