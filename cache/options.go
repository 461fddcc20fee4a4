// api/cache/options.go

package cache

import (
	"time"

	"github.com/juju/clock"
)

type options struct {
	name         string
	ttl          time.Duration
	fetchTimeout time.Duration
	clock        clock.Clock
}

// Option configures a Cache.
type Option func(*options)

// WithName sets the metrics label.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithTTL sets the default freshness window. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithFetchTimeout bounds every upstream fetch. A fetch that times out is
// treated like any other failure.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.fetchTimeout = d
		}
	}
}

func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		if clk != nil {
			o.clock = clk
		}
	}
}
