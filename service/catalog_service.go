// api/service/catalog_service.go

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/harvestlink/market/api/audit"
	"github.com/harvestlink/market/api/cache"
	"github.com/harvestlink/market/api/dao"
	harvest_errors "github.com/harvestlink/market/api/errors"
	logger "github.com/harvestlink/market/api/logging"
	"github.com/harvestlink/market/api/model"
	"github.com/harvestlink/market/api/util"
)

// ICatalogService is one catalog resource as seen by controllers.
type ICatalogService[T any] interface {
	Resource() string
	List(ctx context.Context, forceRefresh bool) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, item T, actorID string) (*T, error)
	Update(ctx context.Context, id string, item T, actorID string) (*T, error)
	Delete(ctx context.Context, id string, actorID string) error
}

// CatalogService serves one resource of the hosted data service. Reads of
// the whole collection go through a single-flight cache keyed by the
// resource name; writes go straight upstream and invalidate that key.
//
// Slices returned by List are shared between callers and must not be
// modified.
type CatalogService[T any] struct {
	resource string
	data     dao.DataService
	cache    *cache.Cache[[]T]
	validate func(T) error
	eventBus *util.EventBus
}

var _ ICatalogService[model.Meal] = &CatalogService[model.Meal]{}

// NewCatalogService wires a resource to its cache. validate may be nil for
// read-only resources.
func NewCatalogService[T any](resource string, data dao.DataService, itemCache *cache.Cache[[]T], validate func(T) error, eventBus *util.EventBus) *CatalogService[T] {
	return &CatalogService[T]{
		resource: resource,
		data:     data,
		cache:    itemCache,
		validate: validate,
		eventBus: eventBus,
	}
}

func (s *CatalogService[T]) Resource() string {
	return s.resource
}

// List returns the whole collection, from cache when fresh. forceRefresh
// skips the cached value but still joins a fetch already in progress.
func (s *CatalogService[T]) List(ctx context.Context, forceRefresh bool) ([]T, error) {
	items, err := s.cache.Get(ctx, s.resource, s.fetchAll, cache.GetOptions{ForceRefresh: forceRefresh})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.resource, err)
	}
	return items, nil
}

func (s *CatalogService[T]) Get(ctx context.Context, id string) (*T, error) {
	record, err := s.data.GetByID(ctx, s.resource, id)
	if err != nil {
		return nil, err
	}
	item, err := decodeRecord[T](record)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CatalogService[T]) Create(ctx context.Context, item T, actorID string) (*T, error) {
	if err := s.check(item); err != nil {
		return nil, err
	}

	record, err := toRecord(item)
	if err != nil {
		return nil, err
	}
	delete(record, "created_at")
	delete(record, "updated_at")
	if record.ID() == "" {
		record["id"] = uuid.NewString()
	}

	created, err := s.data.Insert(ctx, s.resource, record)
	if err != nil {
		logger.Error("Error creating record", zap.Error(err), zap.String("resource", s.resource), zap.String("userID", actorID))
		return nil, fmt.Errorf("failed to create %s: %w", s.resource, err)
	}
	result, err := decodeRecord[T](created)
	if err != nil {
		return nil, err
	}

	s.changed(ctx, model.ChangeEvent{
		Resource:   s.resource,
		ResourceID: created.ID(),
		Action:     audit.ActionCreate,
		ActorID:    actorID,
		After:      result,
	})
	return &result, nil
}

func (s *CatalogService[T]) Update(ctx context.Context, id string, item T, actorID string) (*T, error) {
	if err := s.check(item); err != nil {
		return nil, err
	}

	before, err := s.data.GetByID(ctx, s.resource, id)
	if err != nil {
		return nil, err
	}

	record, err := toRecord(item)
	if err != nil {
		return nil, err
	}
	delete(record, "id")
	delete(record, "created_at")
	record["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	updated, err := s.data.Update(ctx, s.resource, id, record)
	if err != nil {
		logger.Error("Error updating record", zap.Error(err), zap.String("resource", s.resource), zap.String("id", id))
		return nil, fmt.Errorf("failed to update %s %s: %w", s.resource, id, err)
	}
	result, err := decodeRecord[T](updated)
	if err != nil {
		return nil, err
	}

	s.changed(ctx, model.ChangeEvent{
		Resource:   s.resource,
		ResourceID: id,
		Action:     audit.ActionUpdate,
		ActorID:    actorID,
		Before:     before,
		After:      result,
	})
	return &result, nil
}

func (s *CatalogService[T]) Delete(ctx context.Context, id string, actorID string) error {
	if err := s.data.Delete(ctx, s.resource, id); err != nil {
		logger.Error("Error deleting record", zap.Error(err), zap.String("resource", s.resource), zap.String("id", id))
		return fmt.Errorf("failed to delete %s %s: %w", s.resource, id, err)
	}

	s.changed(ctx, model.ChangeEvent{
		Resource:   s.resource,
		ResourceID: id,
		Action:     audit.ActionDelete,
		ActorID:    actorID,
	})
	return nil
}

// Invalidate drops the cached collection.
func (s *CatalogService[T]) Invalidate() {
	s.cache.Invalidate(s.resource)
}

func (s *CatalogService[T]) check(item T) error {
	if s.validate == nil {
		return fmt.Errorf("%w: %s is read-only", harvest_errors.ErrUnknownResource, s.resource)
	}
	return s.validate(item)
}

// changed makes the next read see the mutation, then tells subscribers.
func (s *CatalogService[T]) changed(ctx context.Context, event model.ChangeEvent) {
	s.Invalidate()
	logger.Info("Catalog changed",
		zap.String("resource", event.Resource),
		zap.String("id", event.ResourceID),
		zap.String("action", event.Action),
		zap.String("userID", event.ActorID))
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, model.ChangedEvent(s.resource), event)
	}
}

func (s *CatalogService[T]) fetchAll(ctx context.Context) ([]T, error) {
	records, err := s.data.List(ctx, s.resource)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(records))
	for _, record := range records {
		item, err := decodeRecord[T](record)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeRecord[T any](record model.Record) (T, error) {
	var out T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(map[string]interface{}(record)); err != nil {
		return out, fmt.Errorf("malformed record %q: %v: %w", record.ID(), err, harvest_errors.ErrUpstreamUnavailable)
	}
	return out, nil
}

func toRecord(item interface{}) (model.Record, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	var record model.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return record, nil
}
