package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultRetention bounds how long idle identifiers are kept in memory.
const DefaultRetention = time.Hour

// Limiter is an in-memory sliding-window counter keyed by identifier.
// State is process-local and resets on restart. A single mutex guards the
// map; the identifier set is small enough that per-key locking is not worth
// the bookkeeping.
type Limiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	now      func() time.Time
}

// NewLimiter creates an empty limiter.
func NewLimiter() *Limiter {
	return &Limiter{
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether another request is permitted for identifier within
// the window, recording the request when it is.
func (l *Limiter) Allow(identifier string, maxRequests int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := l.prune(identifier, now.Add(-window))

	if len(kept) < maxRequests {
		l.requests[identifier] = append(kept, now)
		return true
	}
	l.requests[identifier] = kept
	return false
}

// RemainingSeconds returns how long until the oldest in-window request ages
// out, or zero when a request would be allowed now.
func (l *Limiter) RemainingSeconds(identifier string, maxRequests int, window time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := l.prune(identifier, now.Add(-window))
	l.requests[identifier] = kept

	if len(kept) < maxRequests {
		return 0
	}

	oldest := kept[0]
	for _, ts := range kept[1:] {
		if ts.Before(oldest) {
			oldest = ts
		}
	}
	remaining := oldest.Add(window).Sub(now)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds())
}

// Cleanup drops identifiers whose newest request is older than retention.
func (l *Limiter) Cleanup(retention time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-retention)
	for identifier := range l.requests {
		kept := l.prune(identifier, cutoff)
		if len(kept) == 0 {
			delete(l.requests, identifier)
		} else {
			l.requests[identifier] = kept
		}
	}
}

// RunCleanup periodically evicts stale entries until ctx is done.
func (l *Limiter) RunCleanup(ctx context.Context, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Cleanup(retention)
		case <-ctx.Done():
			return
		}
	}
}

// prune returns identifier's timestamps newer than cutoff. Caller holds mu.
func (l *Limiter) prune(identifier string, cutoff time.Time) []time.Time {
	existing := l.requests[identifier]
	kept := existing[:0]
	for _, ts := range existing {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
