// api/cache/cache.go

// Package cache coalesces concurrent fetches of the same resource and serves
// the last successful result for a bounded freshness window.
//
// A Cache holds one slot per key. Within a slot there is at most one
// upstream fetch in progress at any time; callers arriving while it runs wait
// for it and all receive its outcome. Only successful fetches are stored.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/juju/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	logger "github.com/harvestlink/market/api/logging"
)

const (
	DefaultTTL          = 60 * time.Second
	DefaultFetchTimeout = 10 * time.Second

	// Idle slots are swept once the map reaches this size, and again each
	// time it doubles from what survived the last sweep.
	sweepThreshold = 64
)

// FetchFunc produces a fresh value for a slot. The context carries the
// fetch timeout, not the cancellation of any individual caller.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// GetOptions tune a single Get call.
type GetOptions struct {
	// TTL overrides the cache's freshness window when positive.
	TTL time.Duration
	// ForceRefresh drops the stored value and fetches. It still joins a
	// fetch that is already in progress.
	ForceRefresh bool
}

type entry[T any] struct {
	value     T
	fetchedAt time.Time
	ttl       time.Duration
}

type slot[T any] struct {
	entry *entry[T]
	// gen is unique across the cache. Flights are keyed by (key, gen), and
	// Invalidate replaces the slot, so a flight started before an
	// invalidation is never joined or stored.
	gen uint64
	// flying is true while the singleflight group holds the flight for gen.
	flying  bool
	waiters int
}

// Cache is a single-flight, time-boxed memoization layer. It is safe for
// concurrent use; construct one per resource with New.
type Cache[T any] struct {
	name         string
	ttl          time.Duration
	fetchTimeout time.Duration
	clock        clock.Clock

	mu      sync.Mutex
	slots   map[string]*slot[T]
	nextGen uint64
	sweepAt int
	group   singleflight.Group
}

// New returns an empty cache.
func New[T any](opts ...Option) *Cache[T] {
	o := options{
		name:         "default",
		ttl:          DefaultTTL,
		fetchTimeout: DefaultFetchTimeout,
		clock:        clock.WallClock,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[T]{
		name:         o.name,
		ttl:          o.ttl,
		fetchTimeout: o.fetchTimeout,
		clock:        o.clock,
		slots:        make(map[string]*slot[T]),
		sweepAt:      sweepThreshold,
	}
}

// Get returns the value for key, fetching it with fetch when there is no
// fresh value and no fetch in progress.
func (c *Cache[T]) Get(ctx context.Context, key string, fetch FetchFunc[T], opts GetOptions) (T, error) {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = c.ttl
	}

	// Checking the slot and registering the flight happen under one lock
	// so two callers can never both start a fetch for the same generation.
	c.mu.Lock()
	s := c.slotLocked(key)
	if opts.ForceRefresh {
		s.entry = nil
	} else if e := s.entry; e != nil && c.fresh(e, ttl) {
		c.mu.Unlock()
		requestsTotal.WithLabelValues(c.name, "hit").Inc()
		return e.value, nil
	}
	gen := s.gen
	result := "join"
	if !s.flying {
		result = "miss"
		s.flying = true
	}
	ch := c.group.DoChan(flightKey(key, gen), func() (interface{}, error) {
		return c.fill(ctx, key, gen, fetch, ttl, opts.ForceRefresh)
	})
	s.waiters++
	c.mu.Unlock()
	requestsTotal.WithLabelValues(c.name, result).Inc()

	defer c.doneWaiting(key, gen)

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Invalidate drops the slot for key and detaches any fetch in progress, so
// the next Get always starts a new fetch.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.slots[key]; !ok {
		return
	}
	delete(c.slots, key)
	logger.Debug("Cache slot invalidated", zap.String("cache", c.name), zap.String("key", key))
}

// Peek returns the stored value for key if it is still fresh. It never
// fetches.
func (c *Cache[T]) Peek(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.slots[key]; ok && s.entry != nil && c.fresh(s.entry, c.ttl) {
		return s.entry.value, true
	}
	var zero T
	return zero, false
}

func (c *Cache[T]) fill(ctx context.Context, key string, gen uint64, fetch FetchFunc[T], ttl time.Duration, force bool) (v interface{}, err error) {
	// A caller may have missed a value stored between its check and its
	// registration; serve it instead of fetching twice.
	if !force {
		c.mu.Lock()
		if s := c.slots[key]; s != nil && s.gen == gen && s.entry != nil && c.fresh(s.entry, ttl) {
			value := s.entry.value
			c.land(key, gen, nil)
			c.mu.Unlock()
			return value, nil
		}
		c.mu.Unlock()
	}

	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
	defer cancel()

	var stored *entry[T]
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cache %s: fetch for %q panicked: %v", c.name, key, r)
			v = nil
			stored = nil
		}
		c.mu.Lock()
		c.land(key, gen, stored)
		c.mu.Unlock()
	}()

	start := c.clock.Now()
	value, err := fetch(fetchCtx)
	fetchDuration.WithLabelValues(c.name).Observe(c.clock.Now().Sub(start).Seconds())
	if err != nil {
		fetchesTotal.WithLabelValues(c.name, "error").Inc()
		logger.Warn("Cache fetch failed",
			zap.String("cache", c.name),
			zap.String("key", key),
			zap.Error(err))
		return nil, err
	}
	fetchesTotal.WithLabelValues(c.name, "success").Inc()

	stored = &entry[T]{value: value, fetchedAt: c.clock.Now(), ttl: ttl}
	return value, nil
}

// land ends the flight for (key, gen), storing e when it is non-nil. The
// flight is forgotten in the same critical section, so a Get that observes
// the stored value can never join the finished flight. Callers hold c.mu.
func (c *Cache[T]) land(key string, gen uint64, e *entry[T]) {
	c.group.Forget(flightKey(key, gen))
	s, ok := c.slots[key]
	if !ok || s.gen != gen {
		return
	}
	s.flying = false
	if e != nil {
		s.entry = e
	}
	c.dropIfIdleLocked(key, s)
}

func (c *Cache[T]) slotLocked(key string) *slot[T] {
	if s, ok := c.slots[key]; ok {
		return s
	}
	if len(c.slots) >= c.sweepAt {
		c.sweepLocked()
		c.sweepAt = max(sweepThreshold, 2*len(c.slots))
	}
	s := &slot[T]{gen: c.nextGen}
	c.nextGen++
	c.slots[key] = s
	return s
}

// sweepLocked removes slots with no waiters, no flight and no fresh entry.
func (c *Cache[T]) sweepLocked() {
	before := len(c.slots)
	for key, s := range c.slots {
		if s.waiters > 0 || s.flying {
			continue
		}
		if s.entry == nil || !c.fresh(s.entry, s.entry.ttl) {
			delete(c.slots, key)
		}
	}
	if swept := before - len(c.slots); swept > 0 {
		logger.Debug("Cache slots swept", zap.String("cache", c.name), zap.Int("swept", swept), zap.Int("remaining", len(c.slots)))
	}
}

func (c *Cache[T]) dropIfIdleLocked(key string, s *slot[T]) {
	if s.waiters == 0 && !s.flying && s.entry == nil {
		delete(c.slots, key)
	}
}

func (c *Cache[T]) doneWaiting(key string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.slots[key]; ok && s.gen == gen && s.waiters > 0 {
		s.waiters--
		c.dropIfIdleLocked(key, s)
	}
}

// waiting reports how many callers are blocked on the current flight for key.
func (c *Cache[T]) waiting(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.slots[key]; ok {
		return s.waiters
	}
	return 0
}

func (c *Cache[T]) fresh(e *entry[T], ttl time.Duration) bool {
	return c.clock.Now().Sub(e.fetchedAt) < ttl
}

func flightKey(key string, gen uint64) string {
	return key + "\x00" + strconv.FormatUint(gen, 10)
}
