// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package api

import (
	"fmt"
	"net/http"

	"github.com/tomtom215/wellspring/internal/cache"
	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/models"
)

// AdminStats is the payload of GET /admin/cache/stats.
type AdminStats struct {
	Cache      models.CacheStats      `json:"cache"`
	Aggregator models.AggregatorStats `json:"aggregator"`
}

// CacheStats handles GET /admin/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		NewResponseWriter(w, r).Error(http.StatusServiceUnavailable, "Cache not available", nil)
		return
	}

	stats := AdminStats{
		Cache:      cacheStats(h.cache),
		Aggregator: h.content.Stats(),
	}
	WriteSuccess(w, r, stats, "Cache statistics retrieved")
}

// CacheClear handles POST /admin/cache/clear.
func (h *Handler) CacheClear(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		NewResponseWriter(w, r).Error(http.StatusServiceUnavailable, "Cache not available", nil)
		return
	}

	n := h.cache.Clear()
	logging.Ctx(r.Context()).Info().Int("entries", n).Msg("Cache cleared by admin request")

	WriteSuccess(w, r, map[string]int{"cleared": n}, fmt.Sprintf("Cleared %d cache entries", n))
}

func cacheStats(s *cache.Store) models.CacheStats {
	st := s.Stats()
	return models.CacheStats{
		Entries:     st.Entries,
		Expired:     st.ExpiredEntries,
		MaxEntries:  st.MaxEntries,
		TTLSeconds:  st.TTL.Seconds(),
		Hits:        st.Hits,
		Misses:      st.Misses,
		Sets:        st.Sets,
		Evictions:   st.Evictions,
		HitRate:     s.HitRate(),
		ApproxBytes: st.ApproxBytes,
	}
}
