// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

func TestAdmin_StatsAndClear(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(http.MethodGet, "/content?limit=10", nil)
	s.do(http.MethodGet, "/content?limit=10", nil)

	rec := s.do(http.MethodGet, "/admin/cache/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var stats AdminStats
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Cache.Entries != 1 || stats.Cache.Expired != 0 {
		t.Errorf("cache entries = %d live, %d expired, want 1/0", stats.Cache.Entries, stats.Cache.Expired)
	}
	if stats.Cache.MaxEntries != 10 || stats.Cache.TTLSeconds != 60 {
		t.Errorf("cache stats = %+v", stats.Cache)
	}
	if stats.Cache.Hits != 1 {
		t.Errorf("cache hits = %d, want 1", stats.Cache.Hits)
	}
	if stats.Aggregator.Requests != 2 || stats.Aggregator.CacheHits != 1 {
		t.Errorf("aggregator stats = %+v", stats.Aggregator)
	}

	rec = s.do(http.MethodPost, "/admin/cache/clear", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Cleared 1 cache entries" {
		t.Errorf("message = %q", env.Message)
	}
	if s.agg.Cache().Len() != 0 {
		t.Errorf("cache still holds %d entries", s.agg.Cache().Len())
	}

	// The next request goes back to the provider.
	before := s.articles.calls.Load()
	s.do(http.MethodGet, "/content?limit=10", nil)
	if s.articles.calls.Load() == before {
		t.Error("expected provider call after cache clear")
	}
}

func TestAdmin_TokenGuard(t *testing.T) {
	cfg := DefaultChiMiddlewareConfig()
	cfg.AdminToken = "s3cret"
	s := newTestServer(t, cfg)

	tests := []struct {
		name   string
		header http.Header
		want   int
	}{
		{"missing token", nil, http.StatusUnauthorized},
		{"wrong token", http.Header{AdminTokenHeader: {"nope"}}, http.StatusForbidden},
		{"valid token", http.Header{AdminTokenHeader: {"s3cret"}}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodGet, "/admin/cache/stats", tt.header)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAdmin_DisabledInProductionWithoutToken(t *testing.T) {
	cfg := DefaultChiMiddlewareConfig()
	cfg.Production = true
	s := newTestServer(t, cfg)

	rec := s.do(http.MethodPost, "/admin/cache/clear", nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestAdmin_NoCache(t *testing.T) {
	h := newHandler(&fakeContent{}, HandlerOptions{})

	rec := httptest.NewRecorder()
	h.CacheClear(rec, httptest.NewRequest(http.MethodPost, "/admin/cache/clear", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
