// Package ratelimit implements a per-client fixed-window call counter.
//
// A client's window resets lazily: the first check after the window has
// elapsed starts a fresh window, there is no timer. Checks count immediately,
// so a client whose downstream lookups fail still consumes its quota.
// Windows are never deleted; the map grows with the distinct client set.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"creatorscout/internal/clock"
)

// Decision is the outcome of a single Check.
type Decision struct {
	Allowed           bool
	RetryAfterSeconds int // set when denied
}

type window struct {
	count int
	start time.Time
}

// Limiter counts calls per client within a fixed window.
type Limiter struct {
	mu       sync.Mutex
	duration time.Duration
	max      int
	clk      clock.Clock
	clients  map[string]*window
}

func New(duration time.Duration, max int, clk clock.Clock) *Limiter {
	return &Limiter{
		duration: duration,
		max:      max,
		clk:      clk,
		clients:  make(map[string]*window),
	}
}

// Check records a call for clientID and reports whether it is allowed within
// the current window.
func (l *Limiter) Check(clientID string) Decision {
	now := l.clk.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[clientID]
	if !ok {
		l.clients[clientID] = &window{count: 1, start: now}
		return Decision{Allowed: true}
	}

	if now.Sub(w.start) >= l.duration {
		w.count = 1
		w.start = now
		return Decision{Allowed: true}
	}

	if w.count >= l.max {
		remaining := l.duration - now.Sub(w.start)
		return Decision{RetryAfterSeconds: int(math.Ceil(remaining.Seconds()))}
	}

	w.count++
	return Decision{Allowed: true}
}
