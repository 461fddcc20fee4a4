// api/routing/provider.go

// Package routing talks to the external driving-route service.
package routing

import (
	"context"

	"github.com/harvestlink/market/api/model"
)

// Provider returns a driving route between two points. Any failure,
// including a malformed payload, wraps ErrRouteUnavailable.
type Provider interface {
	Route(ctx context.Context, from, to model.Coordinate) (*model.Route, error)
}
