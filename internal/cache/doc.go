// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

/*
Package cache provides the thread-safe, TTL-bounded store that makes repeated
aggregation requests return without touching any provider.

# Overview

  - One fixed TTL per Store, applied to every entry (default 7 minutes)
  - Lazy expiry: a Get after ExpiresAt reports absent and deletes the entry
  - Capacity bound: when a Set finds the store full it sweeps every expired
    entry. Fresh entries are never evicted to make room, so a store full of
    valid data grows past the bound (and logs a warning) instead
  - Deterministic keys: Key sorts parameter names, so argument order never
    changes the key
  - Injectable clock for fake-time tests
  - Observer hook for metrics; it never affects what Get returns

# Usage

	store := cache.New(7*time.Minute,
	    cache.WithMaxEntries(100),
	    cache.WithObserver(cache.NewPrometheusObserver("aggregation")),
	)

	key := cache.Key("content", map[string]any{"limit": 30})
	if v, ok := store.Get(key); ok {
	    return v.(models.AggregationResult)
	}
	store.Set(key, result)

Expired entries that are never read again are released by Sweep, which the
supervisor's cache janitor calls on an interval.
*/
package cache
