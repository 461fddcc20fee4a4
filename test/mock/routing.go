package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/harvestlink/market/api/model"
)

// MockRoutingProvider is a mock implementation of routing.Provider
type MockRoutingProvider struct {
	mock.Mock
}

func (m *MockRoutingProvider) Route(ctx context.Context, from, to model.Coordinate) (*model.Route, error) {
	args := m.Called(ctx, from, to)
	route, _ := args.Get(0).(*model.Route)
	return route, args.Error(1)
}

// MockRouteCache is a mock implementation of service.RouteCache
type MockRouteCache struct {
	mock.Mock
}

func (m *MockRouteCache) GetRoute(ctx context.Context, from, to model.Coordinate) (*model.Route, error) {
	args := m.Called(ctx, from, to)
	route, _ := args.Get(0).(*model.Route)
	return route, args.Error(1)
}

func (m *MockRouteCache) SetRoute(ctx context.Context, route *model.Route) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}
