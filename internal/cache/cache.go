// Package cache provides the process-local lookup cache.
//
// Entries expire lazily on read: a stored payload is logically absent once its
// age reaches the TTL, even though it is physically retained until overwritten.
// There is no eviction beyond that; the key space (platform x industry or
// platform x account) stays small relative to process lifetime.
package cache

import (
	"sort"
	"sync"
	"time"

	"creatorscout/internal/clock"
)

type entry struct {
	payload  any
	storedAt time.Time
}

// Store is a TTL key/value store. Payloads are treated as immutable once
// stored; callers must not mutate what Get returns.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clk     clock.Clock
	entries map[string]entry
}

func New(ttl time.Duration, clk clock.Clock) *Store {
	return &Store{
		ttl:     ttl,
		clk:     clk,
		entries: make(map[string]entry),
	}
}

// Get returns the payload for key, or false if the key was never set or the
// stored entry has aged out.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || s.clk.Now().Sub(e.storedAt) >= s.ttl {
		return nil, false
	}
	return e.payload, true
}

// Set stores payload under key, overwriting any previous entry wholesale.
func (s *Store) Set(key string, payload any) {
	s.mu.Lock()
	s.entries[key] = entry{payload: payload, storedAt: s.clk.Now()}
	s.mu.Unlock()
}

// Keys returns the sorted set of live (non-expired) keys.
func (s *Store) Keys() []string {
	now := s.clk.Now()
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for k, e := range s.entries {
		if now.Sub(e.storedAt) < s.ttl {
			keys = append(keys, k)
		}
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	now := s.clk.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.entries {
		if now.Sub(e.storedAt) < s.ttl {
			n++
		}
	}
	return n
}
