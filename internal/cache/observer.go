// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package cache

import (
	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/metrics"
)

// EventType identifies a cache event.
type EventType string

const (
	EventHit     EventType = "hit"
	EventMiss    EventType = "miss"
	EventSet     EventType = "set"
	EventExpired EventType = "expired"
	EventSweep   EventType = "sweep"
	EventDelete  EventType = "delete"
	EventClear   EventType = "clear"
)

// Event describes one store operation. Count is the number of entries
// removed (expired, sweep, delete, clear); Entries is the store size after
// the operation when known.
type Event struct {
	Type      EventType
	Key       string
	Count     int
	Entries   int
	SizeBytes int
}

// Observer receives cache events. Implementations must be safe for
// concurrent use and must not call back into the Store.
type Observer interface {
	Observe(Event)
}

// NopObserver discards every event.
type NopObserver struct{}

// Observe implements Observer.
func (NopObserver) Observe(Event) {}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) { f(e) }

// PrometheusObserver exports cache events under a cache_type label and
// debug-logs removals.
type PrometheusObserver struct {
	cacheType string
}

// NewPrometheusObserver returns an observer labelled cacheType.
func NewPrometheusObserver(cacheType string) *PrometheusObserver {
	return &PrometheusObserver{cacheType: cacheType}
}

// Observe implements Observer.
func (p *PrometheusObserver) Observe(e Event) {
	switch e.Type {
	case EventHit:
		metrics.CacheHits.WithLabelValues(p.cacheType).Inc()
	case EventMiss:
		metrics.CacheMisses.WithLabelValues(p.cacheType).Inc()
	case EventExpired:
		metrics.CacheMisses.WithLabelValues(p.cacheType).Inc()
		metrics.CacheEvictions.WithLabelValues(p.cacheType, "expired").Add(float64(e.Count))
		metrics.CacheSize.WithLabelValues(p.cacheType).Set(float64(e.Entries))
	case EventSet:
		metrics.CacheSize.WithLabelValues(p.cacheType).Set(float64(e.Entries))
	case EventSweep, EventDelete, EventClear:
		if e.Count > 0 {
			metrics.CacheEvictions.WithLabelValues(p.cacheType, string(e.Type)).Add(float64(e.Count))
			logging.Debug().
				Str("component", "cache").
				Str("cache_type", p.cacheType).
				Str("event", string(e.Type)).
				Int("removed", e.Count).
				Int("entries", e.Entries).
				Msg("Cache entries removed")
		}
		metrics.CacheSize.WithLabelValues(p.cacheType).Set(float64(e.Entries))
	}
}
