package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per key. The server keys by client address,
// the API client keys by upstream host.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rps     float64
	burst   int
	now     func() time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewLimiter returns a Limiter refilling rps tokens per second up to burst.
// rps <= 0 disables limiting.
func NewLimiter(rps float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		buckets: make(map[string]*bucket),
		rps:     rps,
		burst:   burst,
		now:     time.Now,
	}
}

// Enabled reports whether the limiter ever rejects anything
func (l *Limiter) Enabled() bool {
	return l != nil && l.rps > 0
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = l.now()
	return b.lim
}

// Allow consumes a token for key if one is available
func (l *Limiter) Allow(key string) bool {
	if !l.Enabled() {
		return true
	}
	return l.get(key).Allow()
}

// Wait blocks until key has a token or ctx is done.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	if !l.Enabled() {
		return nil
	}
	return l.get(key).Wait(ctx)
}

// Prune drops buckets idle for longer than idle and returns how many were removed.
func (l *Limiter) Prune(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	n := 0
	for k, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, k)
			n++
		}
	}
	return n
}

// RunPruner calls Prune every interval until ctx is cancelled.
func (l *Limiter) RunPruner(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune(idle)
		}
	}
}

// Stats reports the current state of every bucket without consuming tokens.
func (l *Limiter) Stats() map[string]LimiterStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	stats := make(map[string]LimiterStats, len(l.buckets))
	for key, b := range l.buckets {
		stats[key] = LimiterStats{
			Key:             key,
			RPS:             float64(b.lim.Limit()),
			Burst:           b.lim.Burst(),
			TokensAvailable: b.lim.TokensAt(now),
			LastSeen:        b.lastSeen,
		}
	}
	return stats
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// LimiterStats describes one bucket
type LimiterStats struct {
	Key             string    `json:"key"`
	RPS             float64   `json:"rps"`
	Burst           int       `json:"burst"`
	TokensAvailable float64   `json:"tokens_available"`
	LastSeen        time.Time `json:"last_seen"`
}

// IsThrottled reports whether the next request for this key would be rejected
func (s LimiterStats) IsThrottled() bool {
	return s.TokensAvailable < 1
}
