// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package aggregate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/wellspring/internal/breaker"
	"github.com/tomtom215/wellspring/internal/dedupe"
	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/models"
	"github.com/tomtom215/wellspring/internal/providers"
	"github.com/tomtom215/wellspring/internal/queries"
	"github.com/tomtom215/wellspring/internal/relevance"
)

// ErrAllQueriesFailed means every provider query of a pipeline failed.
var ErrAllQueriesFailed = errors.New("all provider queries failed")

// Pipeline fetches, de-duplicates, scores and ranks one kind of content.
// It treats every adapter the same way; only the query catalog is
// kind-specific.
type Pipeline struct {
	Kind    models.Kind
	Adapter providers.Adapter
	Ranker  relevance.Ranker

	MinScore       int
	MaxQueryFanout int
	PerCallTimeout time.Duration
}

// Run returns at most limit ranked items.
//
// An unconfigured adapter yields an empty success. Individual query
// failures are logged and skipped; Run fails only when every query fails or
// ctx ends first.
func (p *Pipeline) Run(ctx context.Context, limit int) ([]models.ContentItem, error) {
	if limit <= 0 {
		return []models.ContentItem{}, nil
	}
	log := logging.Ctx(ctx).With().
		Str("component", "aggregate").
		Str("kind", string(p.Kind)).
		Logger()

	if p.Adapter == nil || !p.Adapter.Configured() {
		log.Debug().Msg("Provider not configured, returning no items")
		return []models.ContentItem{}, nil
	}

	qs := queries.Select(p.Kind, limit, p.MaxQueryFanout)
	perQuery := queries.PerQueryLimit(limit, len(qs))

	results := make([][]models.ContentItem, len(qs))
	errs := make([]error, len(qs))

	// Query failures are recorded per slot; no goroutine returns an error,
	// so one bad query never cancels its siblings.
	var g errgroup.Group
	g.SetLimit(len(qs))
	for i, q := range qs {
		g.Go(func() error {
			callCtx, cancel := breaker.WithCallTimeout(ctx, p.perCallTimeout())
			defer cancel()

			items, err := p.Adapter.Fetch(callCtx, q, perQuery)
			if err != nil {
				errs[i] = err
				log.Warn().Err(err).Str("query", q).Msg("Provider query failed, skipping")
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s pipeline: %w", p.Kind, err)
	}

	var merged []models.ContentItem
	failed := 0
	for i := range qs {
		if errs[i] != nil {
			failed++
			continue
		}
		merged = append(merged, results[i]...)
	}
	if failed == len(qs) {
		return nil, fmt.Errorf("%s pipeline: %w: %w", p.Kind, ErrAllQueriesFailed, errors.Join(errs...))
	}

	unique := dedupe.Items(merged)
	ranked := p.Ranker.FilterAndRank(ctx, unique, p.MinScore)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	log.Debug().
		Int("queries", len(qs)).
		Int("failed_queries", failed).
		Int("fetched", len(merged)).
		Int("unique", len(unique)).
		Int("returned", len(ranked)).
		Msg("Pipeline complete")
	return ranked, nil
}

func (p *Pipeline) perCallTimeout() time.Duration {
	if p.PerCallTimeout <= 0 {
		return DefaultPerCallTimeout
	}
	return p.PerCallTimeout
}
