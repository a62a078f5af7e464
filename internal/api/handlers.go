// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/wellspring/internal/aggregate"
	"github.com/tomtom215/wellspring/internal/cache"
	"github.com/tomtom215/wellspring/internal/config"
	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/models"
	"github.com/tomtom215/wellspring/internal/providers"
	"github.com/tomtom215/wellspring/internal/validation"
)

// ContentSource is the slice of the aggregator the content handlers need.
type ContentSource interface {
	Aggregate(ctx context.Context, total int) models.AggregationResult
	FetchKind(ctx context.Context, kind models.Kind, limit int) []models.ContentItem
	Stats() models.AggregatorStats
}

// Limits holds the per-endpoint default limits and the shared maximum.
type Limits struct {
	Content int
	News    int
	Videos  int
	Music   int
	Max     int
}

// DefaultLimits returns 50 / 25 / 25 / 20 with a maximum of 100.
func DefaultLimits() Limits {
	return Limits{Content: 50, News: 25, Videos: 25, Music: 20, Max: 100}
}

// LimitsFromConfig reads the limits from the aggregation config, keeping the
// defaults for unset values.
func LimitsFromConfig(agg *config.AggregationConfig) Limits {
	l := DefaultLimits()
	if agg == nil {
		return l
	}
	if agg.DefaultLimit > 0 {
		l.Content = agg.DefaultLimit
	}
	if agg.DefaultNewsLimit > 0 {
		l.News = agg.DefaultNewsLimit
	}
	if agg.DefaultVideoLimit > 0 {
		l.Videos = agg.DefaultVideoLimit
	}
	if agg.DefaultMusicLimit > 0 {
		l.Music = agg.DefaultMusicLimit
	}
	if agg.MaxLimit > 0 {
		l.Max = agg.MaxLimit
	}
	return l
}

// Handler contains the dependencies of the API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, shared helpers (this file)
//   - handlers_content.go: content endpoints
//   - handlers_health.go: liveness and readiness
//   - handlers_admin.go: cache administration
type Handler struct {
	content   ContentSource
	cache     *cache.Store
	adapters  providers.Set
	limits    Limits
	scoring   string
	version   string
	startTime time.Time
}

// HandlerOptions configures NewHandler.
type HandlerOptions struct {
	Limits Limits
	// Scoring names the active scorer for the health payload ("ai" or "keyword").
	Scoring string
	Version string
}

// NewHandler creates a handler serving agg.
//
//	handler := api.NewHandler(agg, api.HandlerOptions{
//	    Limits:  api.LimitsFromConfig(&cfg.Aggregation),
//	    Scoring: "ai",
//	    Version: version,
//	})
func NewHandler(agg *aggregate.Aggregator, opts HandlerOptions) *Handler {
	h := newHandler(agg, opts)
	if agg != nil {
		h.cache = agg.Cache()
		h.adapters = agg.Adapters()
	}
	return h
}

func newHandler(content ContentSource, opts HandlerOptions) *Handler {
	if opts.Limits == (Limits{}) {
		opts.Limits = DefaultLimits()
	}
	if opts.Limits.Max <= 0 {
		opts.Limits.Max = DefaultLimits().Max
	}
	if opts.Scoring == "" {
		opts.Scoring = "keyword"
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Handler{
		content:   content,
		limits:    opts.Limits,
		scoring:   opts.Scoring,
		version:   opts.Version,
		startTime: time.Now(),
	}
}

// contentQuery is the validated query string of the content endpoints.
type contentQuery struct {
	Limit int `json:"limit" validate:"gte=1"`
}

// parseLimit reads the "limit" query parameter. Missing, non-numeric and
// non-positive values yield def; larger values are clamped to max.
func parseLimit(r *http.Request, def, maxLimit int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Str("limit", raw).Msg("Ignoring non-numeric limit")
		return def
	}
	q := contentQuery{Limit: n}
	if verr := validation.ValidateStruct(&q); verr != nil {
		logging.Ctx(r.Context()).Debug().Str("limit", raw).Str("reason", verr.Error()).Msg("Ignoring invalid limit")
		return def
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		return maxLimit
	}
	return q.Limit
}
