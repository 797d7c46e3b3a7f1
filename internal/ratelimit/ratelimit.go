// Package ratelimit bounds outbound game-API calls inside a sliding
// window. Callers that are denied skip the call for that attempt; there is
// no queueing and no backoff.
package ratelimit

import (
	"sync"
	"time"
)

// Default window configuration matching the game API's published limit.
const (
	defaultMaxCalls = 80
	defaultWindow   = 60 * time.Second
)

// Option applies a configuration option to the Limiter.
type Option func(*Limiter)

// WithMaxCalls sets the number of calls admitted per window.
func WithMaxCalls(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.maxCalls = n
		}
	}
}

// WithWindow sets the sliding window length.
func WithWindow(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.window = d
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// Limiter admits calls while fewer than maxCalls have been recorded within
// the trailing window. A timestamp exactly window old no longer counts.
// The sweep loop and the command API share one Limiter, so it is guarded
// by a mutex.
type Limiter struct {
	mu       sync.Mutex
	maxCalls int
	window   time.Duration
	calls    []time.Time
	now      func() time.Time
}

// New creates a Limiter with the default 80-per-minute window.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		maxCalls: defaultMaxCalls,
		window:   defaultWindow,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether a call may proceed now. On true the call is
// recorded against the window; on false nothing is recorded and the caller
// must skip the call entirely.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)
	if len(l.calls) >= l.maxCalls {
		return false
	}
	l.calls = append(l.calls, now)
	return true
}

// Remaining reports how many calls the window would still admit.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(l.now())
	return l.maxCalls - len(l.calls)
}

// evict drops timestamps aged window or more. Strictly-younger-than-window
// entries stay, so a burst exactly at the boundary is released.
func (l *Limiter) evict(now time.Time) {
	kept := l.calls[:0]
	for _, t := range l.calls {
		if now.Sub(t) < l.window {
			kept = append(kept, t)
		}
	}
	l.calls = kept
}
