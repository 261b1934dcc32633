package search

import (
	"context"
	"sync"
	"time"
)

// Gate enforces a minimum interval between search requests and a coarse
// daily quota. One Gate is shared by every caller in the process; all state
// mutation happens under the mutex. The clock is injectable for tests.
type Gate struct {
	mu          sync.Mutex
	delay       time.Duration
	dailyQuota  int
	lastRequest time.Time
	requests    int
	windowStart time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// GateStats is a snapshot of quota usage.
type GateStats struct {
	Requests  int `json:"requests"`
	Quota     int `json:"quota"`
	Remaining int `json:"remaining"`
}

// NewGate creates a Gate with the given minimum inter-request delay and
// daily request quota.
func NewGate(delay time.Duration, dailyQuota int) *Gate {
	return &Gate{
		delay:      delay,
		dailyQuota: dailyQuota,
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

// withClock substitutes the time source. Test hook.
func (g *Gate) withClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) *Gate {
	g.now = now
	g.sleep = sleep
	return g
}

// Acquire blocks until the minimum interval since the previous request has
// elapsed, then reserves one quota slot. It returns false when the daily
// quota is exhausted, in which case no slot is consumed and the caller
// should fall back to offline mode.
//
// The lock is released while sleeping, so concurrent callers race for the
// next slot; quota and interval are re-checked after every wake-up and a
// slot is only reserved while both hold under the lock.
func (g *Gate) Acquire(ctx context.Context) (bool, error) {
	g.mu.Lock()
	for {
		now := g.now()
		if g.windowStart.IsZero() || now.Sub(g.windowStart) >= 24*time.Hour {
			g.windowStart = now
			g.requests = 0
		}

		if g.requests >= g.dailyQuota {
			g.mu.Unlock()
			return false, nil
		}

		wait := g.delay - now.Sub(g.lastRequest)
		if wait <= 0 {
			g.lastRequest = now
			g.requests++
			g.mu.Unlock()
			return true, nil
		}

		g.mu.Unlock()
		if err := g.sleep(ctx, wait); err != nil {
			return false, err
		}
		g.mu.Lock()
	}
}

// Stats returns current quota usage.
func (g *Gate) Stats() GateStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	remaining := g.dailyQuota - g.requests
	if remaining < 0 {
		remaining = 0
	}
	return GateStats{
		Requests:  g.requests,
		Quota:     g.dailyQuota,
		Remaining: remaining,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
