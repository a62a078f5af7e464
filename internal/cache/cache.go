// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package cache

import (
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wellspring/internal/logging"
)

// DefaultTTL and DefaultMaxEntries apply when New receives zero values.
const (
	DefaultTTL        = 7 * time.Minute
	DefaultMaxEntries = 100
)

// Entry is a cached value with its lifetime.
// ExpiresAt == CreatedAt + TTL at write time.
type Entry struct {
	Key             string
	Value           interface{}
	CreatedAt       time.Time
	ExpiresAt       time.Time
	ApproxSizeBytes int
}

// expired reports whether the entry is logically absent at now.
func (e *Entry) expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Stats is a snapshot of store counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Sets        int64
	Evictions   int64
	MaxEntries  int
	TTL         time.Duration
	ApproxBytes int64
	LastSweep   time.Time

	// Entries counts unexpired entries. ExpiredEntries counts entries past
	// their TTL that are still held until a Get, Sweep or capacity sweep
	// removes them.
	Entries        int
	ExpiredEntries int
}

// Store is an in-memory key/value store with a single TTL and a soft
// capacity bound.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]*Entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	observer   Observer

	statsMu sync.Mutex
	stats   Stats
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxEntries sets the capacity at which Set triggers a sweep.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithObserver installs a hook notified of every cache event.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// New creates a Store. A non-positive ttl selects DefaultTTL.
func New(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		entries:    make(map[string]*Entry),
		ttl:        ttl,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		observer:   NopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the lifetime applied to every entry.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns the value stored under key. An entry past its ExpiresAt is
// reported absent and removed.
func (s *Store) Get(key string) (interface{}, bool) {
	now := s.now()

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		s.record(func(st *Stats) { st.Misses++ })
		s.observer.Observe(Event{Type: EventMiss, Key: key})
		return nil, false
	}

	if entry.expired(now) {
		removed, size := s.evictIfExpired(key, now)
		if !removed {
			s.record(func(st *Stats) { st.Misses++ })
			s.observer.Observe(Event{Type: EventMiss, Key: key})
			return nil, false
		}
		s.record(func(st *Stats) { st.Misses++; st.Evictions++ })
		s.observer.Observe(Event{Type: EventExpired, Key: key, Count: 1, Entries: size})
		return nil, false
	}

	s.record(func(st *Stats) { st.Hits++ })
	s.observer.Observe(Event{Type: EventHit, Key: key})
	return entry.Value, true
}

// evictIfExpired deletes key if the entry currently stored under it is
// expired at now. A concurrent Set may have replaced the entry Get saw, or
// another Get may already have removed it; both leave removed false.
func (s *Store) evictIfExpired(key string, now time.Time) (removed bool, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.entries[key]; ok && cur.expired(now) {
		delete(s.entries, key)
		s.adjustBytes(-int64(cur.ApproxSizeBytes))
		removed = true
	}
	return removed, len(s.entries)
}

// Set stores value under key with the store's TTL, replacing any previous
// entry. When the store is at capacity every expired entry is swept first.
func (s *Store) Set(key string, value interface{}) {
	now := s.now()
	entry := &Entry{
		Key:             key,
		Value:           value,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.ttl),
		ApproxSizeBytes: approxSize(value),
	}

	s.mu.Lock()
	swept := 0
	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		swept = s.sweepLocked(now)
		if len(s.entries) >= s.maxEntries {
			logging.Warn().
				Str("component", "cache").
				Int("entries", len(s.entries)).
				Int("max_entries", s.maxEntries).
				Msg("Cache full of unexpired entries, growing past capacity")
		}
	}
	if old, exists := s.entries[key]; exists {
		s.adjustBytes(-int64(old.ApproxSizeBytes))
	}
	s.entries[key] = entry
	s.adjustBytes(int64(entry.ApproxSizeBytes))
	size := len(s.entries)
	s.mu.Unlock()

	s.record(func(st *Stats) { st.Sets++; st.Evictions += int64(swept) })
	if swept > 0 {
		s.observer.Observe(Event{Type: EventSweep, Count: swept, Entries: size})
	}
	s.observer.Observe(Event{Type: EventSet, Key: key, Entries: size, SizeBytes: entry.ApproxSizeBytes})
}

// Delete removes key. Missing keys are ignored.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
		s.adjustBytes(-int64(entry.ApproxSizeBytes))
	}
	size := len(s.entries)
	s.mu.Unlock()

	if ok {
		s.record(func(st *Stats) { st.Evictions++ })
		s.observer.Observe(Event{Type: EventDelete, Key: key, Count: 1, Entries: size})
	}
}

// Clear removes every entry and returns how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	n := len(s.entries)
	s.entries = make(map[string]*Entry)
	s.record(func(st *Stats) {
		st.Evictions += int64(n)
		st.ApproxBytes = 0
	})
	s.mu.Unlock()

	s.observer.Observe(Event{Type: EventClear, Count: n, Entries: 0})
	return n
}

// Sweep removes every expired entry and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	n := s.sweepLocked(now)
	size := len(s.entries)
	s.mu.Unlock()

	s.record(func(st *Stats) {
		st.Evictions += int64(n)
		st.LastSweep = now
	})
	s.observer.Observe(Event{Type: EventSweep, Count: n, Entries: size})
	return n
}

// sweepLocked must be called with s.mu held for writing.
func (s *Store) sweepLocked(now time.Time) int {
	removed := 0
	for key, entry := range s.entries {
		if entry.expired(now) {
			delete(s.entries, key)
			s.adjustBytes(-int64(entry.ApproxSizeBytes))
			removed++
		}
	}
	return removed
}

// Len returns the number of physically present entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns a snapshot of the store counters.
func (s *Store) Stats() Stats {
	now := s.now()

	s.mu.RLock()
	live, expired := 0, 0
	for _, entry := range s.entries {
		if entry.expired(now) {
			expired++
		} else {
			live++
		}
	}
	s.mu.RUnlock()

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	st := s.stats
	st.Entries = live
	st.ExpiredEntries = expired
	st.MaxEntries = s.maxEntries
	st.TTL = s.ttl
	return st
}

// HitRate returns hits as a percentage of lookups.
func (s *Store) HitRate() float64 {
	st := s.Stats()
	total := st.Hits + st.Misses
	if total == 0 {
		return 0
	}
	return float64(st.Hits) / float64(total) * 100
}

func (s *Store) record(fn func(*Stats)) {
	s.statsMu.Lock()
	fn(&s.stats)
	s.statsMu.Unlock()
}

func (s *Store) adjustBytes(delta int64) {
	s.record(func(st *Stats) { st.ApproxBytes += delta })
}

// approxSize estimates an entry's footprint from its JSON encoding.
func approxSize(v interface{}) int {
	data, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return len(data)
}
