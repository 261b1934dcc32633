package search

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances a manual clock and records sleeps instead of waiting.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func newTestGate(delay time.Duration, quota int) (*Gate, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}
	g := NewGate(delay, quota).withClock(clock.Now, clock.Sleep)
	return g, clock
}

func TestGate_FirstRequestNoWait(t *testing.T) {
	g, clock := newTestGate(2*time.Second, 10)

	ok, err := g.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, clock.sleeps)
}

func TestGate_EnforcesDelay(t *testing.T) {
	g, clock := newTestGate(2*time.Second, 10)
	ctx := context.Background()

	ok, err := g.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = g.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, clock.sleeps, 1)
	assert.Equal(t, 2*time.Second, clock.sleeps[0])
}

func TestGate_QuotaExhaustion(t *testing.T) {
	g, _ := newTestGate(0, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := g.Acquire(ctx)
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := g.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "third request should be refused, not errored")

	stats := g.Stats()
	assert.Equal(t, 2, stats.Requests)
	assert.Equal(t, 0, stats.Remaining)
}

func TestGate_WindowResetRestoresQuota(t *testing.T) {
	g, clock := newTestGate(0, 1)
	ctx := context.Background()

	ok, err := g.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = g.Acquire(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	clock.now = clock.now.Add(25 * time.Hour)

	ok, err = g.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, g.Stats().Requests)
}

func TestGate_ConcurrentCallersRespectQuota(t *testing.T) {
	// Real clock: the delayed sleep path must re-check quota on wake-up.
	g := NewGate(20*time.Millisecond, 2)
	ctx := context.Background()

	ok, err := g.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := g.Acquire(ctx)
			assert.NoError(t, err)
			if ok {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), granted.Load(), "only one quota slot was left")
	assert.Equal(t, 2, g.Stats().Requests)
}

func TestGate_ConcurrentCallersKeepInterval(t *testing.T) {
	delay := 25 * time.Millisecond
	g := NewGate(delay, 10)
	ctx := context.Background()

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := g.Acquire(ctx)
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	// Four grants spaced by the delay need at least three full intervals;
	// callers waking from the same sleep must not fire back-to-back.
	assert.GreaterOrEqual(t, time.Since(start), 3*delay)
	assert.Equal(t, 4, g.Stats().Requests)
}

func TestGate_Stats(t *testing.T) {
	g, _ := newTestGate(0, 100)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := g.Acquire(ctx)
		require.NoError(t, err)
	}

	stats := g.Stats()
	assert.Equal(t, 3, stats.Requests)
	assert.Equal(t, 100, stats.Quota)
	assert.Equal(t, 97, stats.Remaining)
}
