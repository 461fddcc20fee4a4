// api/dao/data_service.go
package dao

import (
	"context"

	"github.com/harvestlink/market/api/model"
)

// DataService is the hosted backend's row store. Failures wrap either
// ErrNotFound or ErrUpstreamUnavailable.
type DataService interface {
	List(ctx context.Context, resource string) ([]model.Record, error)
	GetByID(ctx context.Context, resource, id string) (model.Record, error)
	Insert(ctx context.Context, resource string, record model.Record) (model.Record, error)
	Update(ctx context.Context, resource, id string, record model.Record) (model.Record, error)
	Delete(ctx context.Context, resource, id string) error
}

var knownResources = map[string]bool{
	model.ResourceMeals:       true,
	model.ResourceMenus:       true,
	model.ResourceIngredients: true,
	model.ResourceProfiles:    true,
}
