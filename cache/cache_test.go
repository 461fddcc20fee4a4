// api/cache/cache_test.go

package cache

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record map[string]string

// countingFetch returns a FetchFunc that counts invocations and returns
// whatever next yields.
func countingFetch[T any](calls *int32, next func() (T, error)) FetchFunc[T] {
	return func(ctx context.Context) (T, error) {
		atomic.AddInt32(calls, 1)
		return next()
	}
}

func TestCache_TTL(t *testing.T) {
	clk := testclock.NewClock(time.Date(2024, time.July, 7, 12, 0, 0, 0, time.UTC))
	c := New[record](WithClock(clk), WithTTL(60*time.Second), WithName("ttl-test"))
	ctx := context.Background()

	var calls int32
	fetch := countingFetch(&calls, func() (record, error) {
		return record{"id": "m1"}, nil
	})

	v, err := c.Get(ctx, "meals", fetch, GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, record{"id": "m1"}, v)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	clk.Advance(30 * time.Second)
	v, err = c.Get(ctx, "meals", fetch, GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, record{"id": "m1"}, v)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "fresh entry must not refetch")

	clk.Advance(31 * time.Second)
	_, err = c.Get(ctx, "meals", fetch, GetOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "stale entry must refetch")
}

func TestCache_TTLBoundary(t *testing.T) {
	clk := testclock.NewClock(time.Unix(0, 0))
	c := New[int](WithClock(clk), WithTTL(time.Minute))
	ctx := context.Background()

	var calls int32
	fetch := countingFetch(&calls, func() (int, error) { return 7, nil })

	_, err := c.Get(ctx, "k", fetch, GetOptions{})
	require.NoError(t, err)

	clk.Advance(time.Minute - time.Millisecond)
	_, err = c.Get(ctx, "k", fetch, GetOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	clk.Advance(2 * time.Millisecond)
	_, err = c.Get(ctx, "k", fetch, GetOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestCache_PerCallTTL(t *testing.T) {
	clk := testclock.NewClock(time.Unix(0, 0))
	c := New[int](WithClock(clk), WithTTL(time.Hour))
	ctx := context.Background()

	var calls int32
	fetch := countingFetch(&calls, func() (int, error) { return 1, nil })

	_, err := c.Get(ctx, "k", fetch, GetOptions{})
	require.NoError(t, err)
	clk.Advance(10 * time.Second)
	_, err = c.Get(ctx, "k", fetch, GetOptions{TTL: 5 * time.Second})
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestCache_ConcurrentCallersShareOneFetch(t *testing.T) {
	c := New[[]record](WithName("coalesce-test"))
	ctx := context.Background()

	release := make(chan struct{})
	var calls int32
	fetch := func(ctx context.Context) ([]record, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []record{{"name": "carrot"}}, nil
	}

	const n = 20
	results := make([][]record, n)
	errs := make([]error, n)
	var wg conc.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Go(func() {
			results[i], errs[i] = c.Get(ctx, "ingredients", fetch, GetOptions{})
		})
	}

	require.Eventually(t, func() bool { return c.waiting("ingredients") == n }, 2*time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []record{{"name": "carrot"}}, results[i])
	}
}

func TestCache_TwoSimultaneousCallers(t *testing.T) {
	c := New[[]record]()
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) ([]record, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(100 * time.Millisecond)
		return []record{{"name": "carrot"}}, nil
	}

	var a, b []record
	var errA, errB error
	var wg conc.WaitGroup
	wg.Go(func() { a, errA = c.Get(ctx, "ingredients", fetch, GetOptions{}) })
	wg.Go(func() { b, errB = c.Get(ctx, "ingredients", fetch, GetOptions{}) })
	wg.Wait()

	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, []record{{"name": "carrot"}}, a)
	assert.Equal(t, []record{{"name": "carrot"}}, b)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestCache_FailureIsSharedAndNotCached(t *testing.T) {
	c := New[[]record]()
	ctx := context.Background()

	dbTimeout := errors.New("db timeout")
	release := make(chan struct{})
	var calls int32
	failing := func(ctx context.Context) ([]record, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return nil, dbTimeout
	}

	errs := make([]error, 3)
	var wg conc.WaitGroup
	for i := range errs {
		i := i
		wg.Go(func() {
			_, errs[i] = c.Get(ctx, "meals", failing, GetOptions{})
		})
	}
	require.Eventually(t, func() bool { return c.waiting("meals") == 3 }, 2*time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, err := range errs {
		assert.ErrorIs(t, err, dbTimeout)
	}

	v, err := c.Get(ctx, "meals", func(ctx context.Context) ([]record, error) {
		return []record{}, nil
	}, GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, []record{}, v)
}

func TestCache_NoNegativeCaching(t *testing.T) {
	c := New[int]()
	ctx := context.Background()

	var calls int32
	fetch := countingFetch(&calls, func() (int, error) { return 0, errors.New("boom") })

	for i := 0; i < 3; i++ {
		_, err := c.Get(ctx, "k", fetch, GetOptions{})
		assert.Error(t, err)
	}
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestCache_FailureKeepsPreviousEntry(t *testing.T) {
	clk := testclock.NewClock(time.Unix(0, 0))
	c := New[string](WithClock(clk), WithTTL(time.Minute))
	ctx := context.Background()

	_, err := c.Get(ctx, "k", func(ctx context.Context) (string, error) { return "good", nil }, GetOptions{})
	require.NoError(t, err)

	// Stale for this call only, so it refetches and fails.
	clk.Advance(10 * time.Second)
	_, err = c.Get(ctx, "k", func(ctx context.Context) (string, error) { return "", errors.New("boom") }, GetOptions{TTL: 5 * time.Second})
	require.Error(t, err)

	v, ok := c.Peek("k")
	assert.True(t, ok)
	assert.Equal(t, "good", v)
}

func TestCache_ForcedFailureLeavesNoEntry(t *testing.T) {
	c := New[string]()
	ctx := context.Background()

	_, err := c.Get(ctx, "k", func(ctx context.Context) (string, error) { return "good", nil }, GetOptions{})
	require.NoError(t, err)

	_, err = c.Get(ctx, "k", func(ctx context.Context) (string, error) { return "", errors.New("boom") }, GetOptions{ForceRefresh: true})
	require.Error(t, err)

	_, ok := c.Peek("k")
	assert.False(t, ok)

	v, err := c.Get(ctx, "k", func(ctx context.Context) (string, error) { return "again", nil }, GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "again", v)
}

func TestCache_ForceRefreshBypassesButCoalesces(t *testing.T) {
	c := New[int]()
	ctx := context.Background()

	var calls int32
	_, err := c.Get(ctx, "k", countingFetch(&calls, func() (int, error) { return 1, nil }), GetOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))

	release := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 2, nil
	}

	var first, second int
	var wg conc.WaitGroup
	wg.Go(func() { first, _ = c.Get(ctx, "k", fetch, GetOptions{ForceRefresh: true}) })
	require.Eventually(t, func() bool { return c.waiting("k") == 1 }, 2*time.Second, time.Millisecond)
	wg.Go(func() { second, _ = c.Get(ctx, "k", fetch, GetOptions{ForceRefresh: true}) })
	require.Eventually(t, func() bool { return c.waiting("k") == 2 }, 2*time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "one initial fetch plus one shared forced fetch")
	assert.Equal(t, 2, first)
	assert.Equal(t, 2, second)
}

func TestCache_Invalidate(t *testing.T) {
	c := New[int](WithTTL(time.Hour))
	ctx := context.Background()

	var calls int32
	fetch := countingFetch(&calls, func() (int, error) { return int(atomic.LoadInt32(&calls)), nil })

	_, err := c.Get(ctx, "k", fetch, GetOptions{})
	require.NoError(t, err)

	c.Invalidate("k")
	v, err := c.Get(ctx, "k", fetch, GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))

	// Unknown keys are a no-op.
	c.Invalidate("missing")
}

func TestCache_InvalidateDetachesInFlightFetch(t *testing.T) {
	c := New[string]()
	ctx := context.Background()

	release := make(chan struct{})
	var wg conc.WaitGroup
	var old string
	wg.Go(func() {
		old, _ = c.Get(ctx, "k", func(ctx context.Context) (string, error) {
			<-release
			return "old", nil
		}, GetOptions{})
	})
	require.Eventually(t, func() bool { return c.waiting("k") == 1 }, 2*time.Second, time.Millisecond)

	c.Invalidate("k")

	var calls int32
	v, err := c.Get(ctx, "k", countingFetch(&calls, func() (string, error) { return "new", nil }), GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "new", v)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "must not join the detached fetch")

	close(release)
	wg.Wait()
	assert.Equal(t, "old", old)

	// The detached fetch finished after invalidation and must not overwrite.
	cached, ok := c.Peek("k")
	assert.True(t, ok)
	assert.Equal(t, "new", cached)
}

func TestCache_ForceRefreshAfterFillStartsNewFetch(t *testing.T) {
	c := New[int32](WithTTL(time.Hour))
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) (int32, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	for i := 0; i < 200; i++ {
		_, err := c.Get(ctx, "k", fetch, GetOptions{})
		require.NoError(t, err)

		before := atomic.LoadInt32(&calls)
		v, err := c.Get(ctx, "k", fetch, GetOptions{ForceRefresh: true})
		require.NoError(t, err)
		require.EqualValues(t, before+1, atomic.LoadInt32(&calls), "forced call must run its own fetch")
		require.Equal(t, before+1, v)

		cached, ok := c.Peek("k")
		require.True(t, ok, "forced fetch must leave its value stored")
		require.Equal(t, v, cached)
	}
}

func TestCache_SlotsAreRemoved(t *testing.T) {
	ctx := context.Background()
	ok := func(ctx context.Context) (int, error) { return 1, nil }

	t.Run("Invalidate", func(t *testing.T) {
		c := New[int]()
		_, err := c.Get(ctx, "k", ok, GetOptions{})
		require.NoError(t, err)
		require.Len(t, c.slots, 1)

		c.Invalidate("k")
		assert.Empty(t, c.slots)
	})

	t.Run("FailedFetch", func(t *testing.T) {
		c := New[int]()
		_, err := c.Get(ctx, "k", func(ctx context.Context) (int, error) { return 0, errors.New("boom") }, GetOptions{})
		require.Error(t, err)
		assert.Empty(t, c.slots)
	})

	t.Run("CancelledCallerKeepsRunningFetch", func(t *testing.T) {
		c := New[int]()
		release := make(chan struct{})
		cctx, cancel := context.WithCancel(ctx)
		var wg conc.WaitGroup
		wg.Go(func() {
			_, _ = c.Get(cctx, "k", func(ctx context.Context) (int, error) {
				<-release
				return 5, nil
			}, GetOptions{})
		})
		require.Eventually(t, func() bool { return c.waiting("k") == 1 }, 2*time.Second, time.Millisecond)
		cancel()
		wg.Wait()
		assert.Len(t, c.slots, 1, "slot with a fetch in progress must survive")

		close(release)
		require.Eventually(t, func() bool {
			v, found := c.Peek("k")
			return found && v == 5
		}, 2*time.Second, time.Millisecond)
	})

	t.Run("SweepStale", func(t *testing.T) {
		clk := testclock.NewClock(time.Unix(0, 0))
		c := New[int](WithClock(clk), WithTTL(time.Minute))
		for i := 0; i < sweepThreshold; i++ {
			_, err := c.Get(ctx, strconv.Itoa(i), ok, GetOptions{})
			require.NoError(t, err)
		}
		require.Len(t, c.slots, sweepThreshold)

		clk.Advance(2 * time.Minute)
		_, err := c.Get(ctx, "new", ok, GetOptions{})
		require.NoError(t, err)
		assert.Len(t, c.slots, 1)
	})

	t.Run("SweepKeepsFresh", func(t *testing.T) {
		clk := testclock.NewClock(time.Unix(0, 0))
		c := New[int](WithClock(clk), WithTTL(time.Minute))
		for i := 0; i < sweepThreshold; i++ {
			_, err := c.Get(ctx, strconv.Itoa(i), ok, GetOptions{})
			require.NoError(t, err)
		}

		clk.Advance(30 * time.Second)
		_, err := c.Get(ctx, "new", ok, GetOptions{})
		require.NoError(t, err)
		assert.Len(t, c.slots, sweepThreshold+1)
		assert.Equal(t, 2*sweepThreshold, c.sweepAt)
	})
}

func TestCache_KeysAreIsolated(t *testing.T) {
	c := New[string]()
	ctx := context.Background()

	_, err := c.Get(ctx, "menus", func(ctx context.Context) (string, error) { return "menus-v1", nil }, GetOptions{})
	require.NoError(t, err)

	_, err = c.Get(ctx, "meals", func(ctx context.Context) (string, error) { return "", errors.New("boom") }, GetOptions{})
	require.Error(t, err)

	v, ok := c.Peek("menus")
	assert.True(t, ok)
	assert.Equal(t, "menus-v1", v)
}

func TestCache_FetchTimeout(t *testing.T) {
	c := New[int](WithFetchTimeout(20 * time.Millisecond))
	ctx := context.Background()

	var calls int32
	slow := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-ctx.Done()
		return 0, ctx.Err()
	}

	_, err := c.Get(ctx, "k", slow, GetOptions{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	v, err := c.Get(ctx, "k", func(ctx context.Context) (int, error) { return 3, nil }, GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestCache_CallerCancellationDoesNotCancelFetch(t *testing.T) {
	c := New[int]()

	release := make(chan struct{})
	fetchErr := make(chan error, 1)
	fetch := func(ctx context.Context) (int, error) {
		<-release
		fetchErr <- ctx.Err()
		return 9, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg conc.WaitGroup
	var err error
	wg.Go(func() { _, err = c.Get(ctx, "k", fetch, GetOptions{}) })
	require.Eventually(t, func() bool { return c.waiting("k") == 1 }, 2*time.Second, time.Millisecond)

	cancel()
	wg.Wait()
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	assert.NoError(t, <-fetchErr)
	require.Eventually(t, func() bool {
		v, ok := c.Peek("k")
		return ok && v == 9
	}, 2*time.Second, time.Millisecond)
}

func TestCache_PanickingFetchBecomesError(t *testing.T) {
	c := New[int]()
	_, err := c.Get(context.Background(), "k", func(ctx context.Context) (int, error) {
		panic("kaboom")
	}, GetOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}
