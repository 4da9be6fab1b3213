// Package ratelimit implements a per-client sliding-window request limiter.
package ratelimit

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Result reports the outcome of an admission check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      time.Time
	RetryAfter time.Duration
}

// Limiter admits or rejects requests based on how many a client has made
// within the trailing window. Idle clients are evicted opportunistically
// during ordinary admission checks; there is no background goroutine.
type Limiter struct {
	mu          sync.Mutex
	clients     map[string][]time.Time
	maxRequests int
	window      time.Duration

	cleanupInterval time.Duration
	lastCleanup     time.Time

	logger *zap.Logger
}

// New creates a Limiter allowing maxRequests per window per client.
func New(maxRequests int, window, cleanupInterval time.Duration, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{
		clients:         make(map[string][]time.Time),
		maxRequests:     maxRequests,
		window:          window,
		cleanupInterval: cleanupInterval,
		lastCleanup:     time.Now(),
		logger:          logger,
	}
}

// Allow records the request at time now for the given client and reports
// whether it is admitted. The purge-check-append sequence runs atomically
// under the limiter lock, so two concurrent requests can never both slip
// past the limit on a stale count.
func (l *Limiter) Allow(clientID string, now time.Time) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) > l.cleanupInterval {
		l.removeIdleClients(now)
	}

	timestamps := l.clients[clientID]
	cutoff := now.Add(-l.window)
	live := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}

	if len(live) >= l.maxRequests {
		l.clients[clientID] = live
		l.logger.Warn("Rate limit exceeded", zap.String("client", clientID))
		// A non-positive limit rejects with an empty window, so there is
		// no oldest timestamp to derive the reset from.
		reset := now.Add(l.window)
		if len(live) > 0 {
			reset = live[0].Add(l.window)
		}
		return Result{
			Allowed:    false,
			Limit:      l.maxRequests,
			Remaining:  0,
			Reset:      reset,
			RetryAfter: l.window,
		}
	}

	live = append(live, now)
	l.clients[clientID] = live
	return Result{
		Allowed:   true,
		Limit:     l.maxRequests,
		Remaining: l.maxRequests - len(live),
		Reset:     now.Add(l.window),
	}
}

// removeIdleClients drops clients whose newest request is older than twice
// the window. Caller must hold the lock.
func (l *Limiter) removeIdleClients(now time.Time) {
	cutoff := now.Add(-2 * l.window)
	removed := 0
	for id, timestamps := range l.clients {
		if len(timestamps) == 0 || timestamps[len(timestamps)-1].Before(cutoff) {
			delete(l.clients, id)
			removed++
		}
	}
	l.lastCleanup = now
	if removed > 0 {
		l.logger.Debug("Cleaned up idle rate limit clients", zap.Int("removed", removed))
	}
}

// ClientCount returns how many clients the limiter is currently tracking.
func (l *Limiter) ClientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
