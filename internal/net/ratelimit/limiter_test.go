package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(2.0, 2)

	assert.True(t, limiter.Allow("10.0.0.1"), "first request within burst")
	assert.True(t, limiter.Allow("10.0.0.1"), "second request within burst")
	assert.False(t, limiter.Allow("10.0.0.1"), "third request exceeds burst")
}

func TestLimiter_IndependentKeys(t *testing.T) {
	limiter := NewLimiter(1.0, 1)

	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("b"))
	assert.False(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("b"))
	assert.Equal(t, 2, limiter.Len())
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		require.True(t, limiter.Allow("any"))
	}
	assert.NoError(t, limiter.Wait(context.Background(), "any"))
	assert.Zero(t, limiter.Len())

	var nilLimiter *Limiter
	assert.True(t, nilLimiter.Allow("any"))
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(10.0, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, limiter.Wait(ctx, "api.local"))

	start := time.Now()
	require.NoError(t, limiter.Wait(ctx, "api.local"))
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}

func TestLimiter_WaitTimeout(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	limiter.Allow("api.local")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.Error(t, limiter.Wait(ctx, "api.local"))
}

func TestLimiter_ConcurrentAccess(t *testing.T) {
	limiter := NewLimiter(100.0, 10)

	const numGoroutines = 50
	const requestsPerGoroutine = 5

	var allowed, blocked int64
	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < requestsPerGoroutine; j++ {
				if limiter.Allow("shared") {
					atomic.AddInt64(&allowed, 1)
				} else {
					atomic.AddInt64(&blocked, 1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(numGoroutines*requestsPerGoroutine), allowed+blocked)
	assert.GreaterOrEqual(t, allowed, int64(10))
	assert.Positive(t, blocked)
}

func TestLimiter_Stats(t *testing.T) {
	limiter := NewLimiter(5.0, 10)
	limiter.Allow("stats")
	limiter.Allow("stats")

	stats, ok := limiter.Stats()["stats"]
	require.True(t, ok)
	assert.Equal(t, "stats", stats.Key)
	assert.Equal(t, 5.0, stats.RPS)
	assert.Equal(t, 10, stats.Burst)
	assert.Less(t, stats.TokensAvailable, 10.0)
	assert.False(t, stats.IsThrottled())

	// reading stats must not consume tokens
	before := limiter.Stats()["stats"].TokensAvailable
	after := limiter.Stats()["stats"].TokensAvailable
	assert.InDelta(t, before, after, 0.5)
}

func TestLimiter_Prune(t *testing.T) {
	now := time.Date(2026, 1, 8, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(1, 1)
	limiter.now = func() time.Time { return now }

	limiter.Allow("old")
	now = now.Add(10 * time.Minute)
	limiter.Allow("fresh")

	assert.Equal(t, 1, limiter.Prune(5*time.Minute))
	assert.Equal(t, 1, limiter.Len())
	_, ok := limiter.Stats()["fresh"]
	assert.True(t, ok)
}

func TestLimiter_RunPrunerStopsOnCancel(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.RunPruner(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop")
	}
}
