// Package ratelimit implements the sliding-window request limiter guarding
// the audit endpoint. State is in-memory and single-process: horizontally
// scaled instances do not share counters. That is a documented limitation of
// this deployment shape; the Store seam is where a shared backend would go.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// Window is the trailing interval a client's requests are counted over.
	Window = 60 * time.Second

	// sweepEvery is the minimum interval between full-table sweeps. Sweeps
	// run opportunistically on request arrival, not on a background timer.
	sweepEvery = 2 * time.Minute
)

// Store holds per-client request timestamps. Implementations need no
// internal locking: the Limiter serializes the prune-count-record sequence.
type Store interface {
	// Prune drops timestamps at or before cutoff for the given key.
	Prune(key string, cutoff time.Time)
	// CountInWindow returns the number of recorded timestamps after cutoff.
	CountInWindow(key string, cutoff time.Time) int
	// Record appends a timestamp for the key.
	Record(key string, at time.Time)
	// Sweep drops keys with no timestamps after cutoff.
	Sweep(cutoff time.Time)
}

// MemoryStore is the process-local Store.
type MemoryStore struct {
	hits map[string][]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hits: map[string][]time.Time{}}
}

func (s *MemoryStore) Prune(key string, cutoff time.Time) {
	ts := s.hits[key]
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(s.hits, key)
		return
	}
	s.hits[key] = kept
}

func (s *MemoryStore) CountInWindow(key string, cutoff time.Time) int {
	n := 0
	for _, t := range s.hits[key] {
		if t.After(cutoff) {
			n++
		}
	}
	return n
}

func (s *MemoryStore) Record(key string, at time.Time) {
	s.hits[key] = append(s.hits[key], at)
}

func (s *MemoryStore) Sweep(cutoff time.Time) {
	for key := range s.hits {
		s.Prune(key, cutoff)
	}
}

// Limiter enforces at most limit requests per client per trailing Window.
// Gin serves requests on concurrent goroutines, so the mutex guards the
// whole prune-count-record sequence per call.
type Limiter struct {
	mu        sync.Mutex
	store     Store
	limit     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func New(store Store, limit int) *Limiter {
	return &Limiter{
		store:  store,
		limit:  limit,
		window: Window,
		now:    time.Now,
	}
}

// Allow reports whether the client may proceed. A denied request is not
// recorded against the window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	if l.lastSweep.IsZero() {
		l.lastSweep = now
	} else if now.Sub(l.lastSweep) >= sweepEvery {
		l.store.Sweep(cutoff)
		l.lastSweep = now
	}

	l.store.Prune(key, cutoff)
	if l.store.CountInWindow(key, cutoff) >= l.limit {
		return false
	}
	l.store.Record(key, now)
	return true
}
