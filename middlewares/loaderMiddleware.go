package middlewares

import (
	"context"
	"reflect"
	"time"

	"bitbucket.org/mmdatafocus/aims_backend/config"
	"bitbucket.org/mmdatafocus/aims_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type ctxKey string

const (
	loadersKey = ctxKey("dataloaders")
)

// Loaders wrap the per-request data loaders injected via middleware.
type Loaders struct {
	activityLoader     *dataloader.Loader[int, *models.Activity]
	organizationLoader *dataloader.Loader[int, *models.Organization]
}

// NewLoaders instantiates data loaders for the middleware
func NewLoaders(conn *gorm.DB) *Loaders {
	activityReader := &activityReader{db: conn}
	organizationReader := &organizationReader{db: conn}

	return &Loaders{
		activityLoader:     dataloader.NewBatchedLoader(activityReader.getActivities, dataloader.WithWait[int, *models.Activity](time.Millisecond)),
		organizationLoader: dataloader.NewBatchedLoader(organizationReader.getOrganizations, dataloader.WithWait[int, *models.Organization](time.Millisecond)),
	}
}

// LoaderMiddleware injects fresh data loaders into the request context.
// Loaders are request-scoped so cached reads never leak across requests.
func LoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		loaders := NewLoaders(config.GetDB())
		ctx := context.WithValue(c.Request.Context(), loadersKey, loaders)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// For returns the loaders for the request context, or nil when the request
// was not wrapped by LoaderMiddleware (cmd jobs, tests).
func For(ctx context.Context) *Loaders {
	loaders, _ := ctx.Value(loadersKey).(*Loaders)
	return loaders
}

// handleError creates array of result with the same error repeated for as many items requested
func handleError[T any](itemsLength int, err error) []*dataloader.Result[T] {
	result := make([]*dataloader.Result[T], itemsLength)
	for i := 0; i < itemsLength; i++ {
		result[i] = &dataloader.Result[T]{Error: err}
	}
	return result
}

// turns results from db into dataloader results
// (T must be a struct)
func generateLoaderResults[T models.Data](results []T, ids []int) []*dataloader.Result[*T] {
	resultMap := make(map[int]T)
	var resultZero T
	resultMap[0] = resultZero.GetDefault(0).(T)
	for _, result := range results {
		resultMap[result.GetId()] = result
	}

	loaderResults := make([]*dataloader.Result[*T], 0, len(ids))
	for _, id := range ids {
		data := resultMap[id]
		if reflect.ValueOf(data).IsZero() {
			data = data.GetDefault(id).(T)
		}
		loaderResults = append(loaderResults, &dataloader.Result[*T]{Data: &data})
	}
	return loaderResults
}
