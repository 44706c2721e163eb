package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start  time.Time
	length time.Duration
	count  int64
}

func (w *window) elapsed(now time.Time) bool {
	return now.Sub(w.start) >= w.length
}

// MemoryStore keeps windows in a process-local map.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryStore returns an empty store. now is used by ClearExpired and
// defaults to time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{windows: make(map[string]*window), now: now}
}

// Hit implements Store.
func (s *MemoryStore) Hit(_ context.Context, key string, length time.Duration, now time.Time) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || w.elapsed(now) {
		w = &window{start: now, length: length}
		s.windows[key] = w
	}
	w.count++
	return w.count, w.start, nil
}

// ClearExpired drops windows that have fully elapsed and returns how many
// were removed. The scan and each removal take the lock separately so Hit
// never waits on a full pass over the map.
func (s *MemoryStore) ClearExpired() int {
	now := s.now()

	s.mu.Lock()
	stale := make([]string, 0)
	for k, w := range s.windows {
		if w.elapsed(now) {
			stale = append(stale, k)
		}
	}
	s.mu.Unlock()

	removed := 0
	for _, k := range stale {
		s.mu.Lock()
		// A Hit may have opened a fresh window since the scan.
		if w, ok := s.windows[k]; ok && w.elapsed(now) {
			delete(s.windows, k)
			removed++
		}
		s.mu.Unlock()
	}
	return removed
}

// Len returns the number of tracked windows.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
