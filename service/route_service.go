// api/service/route_service.go

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	harvest_errors "github.com/harvestlink/market/api/errors"
	logger "github.com/harvestlink/market/api/logging"
	"github.com/harvestlink/market/api/model"
	"github.com/harvestlink/market/api/routing"
)

// RouteCache stores provider results. A miss is (nil, nil).
type RouteCache interface {
	GetRoute(ctx context.Context, from, to model.Coordinate) (*model.Route, error)
	SetRoute(ctx context.Context, route *model.Route) error
}

type IRouteService interface {
	Route(ctx context.Context, from, to model.Coordinate) (*model.Route, error)
}

// RouteService proxies the routing provider. Provider failures never reach
// the caller as errors; they become a Route with Available set to false.
type RouteService struct {
	provider routing.Provider
	cache    RouteCache
}

var _ IRouteService = &RouteService{}

// NewRouteService accepts a nil cache.
func NewRouteService(provider routing.Provider, cache RouteCache) *RouteService {
	return &RouteService{provider: provider, cache: cache}
}

func (s *RouteService) Route(ctx context.Context, from, to model.Coordinate) (*model.Route, error) {
	if !from.Valid() || !to.Valid() {
		return nil, fmt.Errorf("%w: %s -> %s", harvest_errors.ErrInvalidCoordinates, from, to)
	}

	if s.cache != nil {
		cached, err := s.cache.GetRoute(ctx, from, to)
		if err != nil {
			logger.Warn("Route cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	route, err := s.provider.Route(ctx, from, to)
	if err != nil {
		logger.Warn("Route unavailable",
			zap.Error(err),
			zap.Stringer("from", from),
			zap.Stringer("to", to))
		return &model.Route{
			From:   from,
			To:     to,
			Reason: harvest_errors.ErrRouteUnavailable.Error(),
		}, nil
	}

	if s.cache != nil {
		if err := s.cache.SetRoute(ctx, route); err != nil {
			logger.Warn("Failed to cache route", zap.Error(err))
		}
	}
	return route, nil
}
