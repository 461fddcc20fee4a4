// api/errors/upstream_errors.go

package errors

import "errors"

var (
	// ErrUpstreamUnavailable covers data service and provider failures,
	// including timeouts.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrRouteUnavailable    = errors.New("route unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)
