// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package models

// APIResponse is the envelope every endpoint returns.
//
// Success:
//
//	{"success": true, "data": {...}, "message": "Fetched 30 items"}
//
// Failure (only when even the empty fallback could not be built):
//
//	{"success": false, "message": "Failed to fetch content", "error": "..."}
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// CacheStats is the payload of GET /admin/cache/stats.
type CacheStats struct {
	Entries     int     `json:"entries"`
	Expired     int     `json:"expiredEntries"`
	MaxEntries  int     `json:"maxEntries"`
	TTLSeconds  float64 `json:"ttlSeconds"`
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	Sets        int64   `json:"sets"`
	Evictions   int64   `json:"evictions"`
	HitRate     float64 `json:"hitRate"`
	ApproxBytes int64   `json:"approxBytes"`
}

// AggregatorStats is the orchestrator's running counters.
type AggregatorStats struct {
	Requests       int64            `json:"requests"`
	CacheHits      int64            `json:"cacheHits"`
	KindFailures   map[string]int64 `json:"kindFailures"`
	LastDurationMS int64            `json:"lastDurationMs"`
}

// HealthStatus is the payload of the health endpoints.
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Providers map[string]bool   `json:"providers,omitempty"`
	Scoring   string            `json:"scoring,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}
