// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package aggregate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/wellspring/internal/cache"
	"github.com/tomtom215/wellspring/internal/config"
	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/metrics"
	"github.com/tomtom215/wellspring/internal/models"
	"github.com/tomtom215/wellspring/internal/providers"
	"github.com/tomtom215/wellspring/internal/relevance"
)

// Default deadlines.
const (
	DefaultSharedTimeout         = 15 * time.Second
	DefaultLargeRequestTimeout   = 25 * time.Second
	DefaultLargeRequestThreshold = 30
	DefaultPerCallTimeout        = 8 * time.Second
	DefaultMinScore              = 50
	DefaultMaxQueryFanout        = 6
)

// Cache key kinds.
const combinedKeyKind = "content"

// Options tunes the orchestrator.
type Options struct {
	Proportions Proportions

	// SharedTimeout bounds the whole fan-out. Requests whose total exceeds
	// LargeRequestThreshold get LargeRequestTimeout instead.
	SharedTimeout         time.Duration
	LargeRequestTimeout   time.Duration
	LargeRequestThreshold int
	PerCallTimeout        time.Duration

	MinScore         int
	MaxQueryFanout   int
	ScoreConcurrency int
}

// DefaultOptions returns the reference settings.
func DefaultOptions() Options {
	return Options{
		Proportions:           DefaultProportions(),
		SharedTimeout:         DefaultSharedTimeout,
		LargeRequestTimeout:   DefaultLargeRequestTimeout,
		LargeRequestThreshold: DefaultLargeRequestThreshold,
		PerCallTimeout:        DefaultPerCallTimeout,
		MinScore:              DefaultMinScore,
		MaxQueryFanout:        DefaultMaxQueryFanout,
		ScoreConcurrency:      relevance.DefaultConcurrency,
	}
}

// OptionsFromConfig maps the aggregation and scoring config sections.
func OptionsFromConfig(agg *config.AggregationConfig, scoring *config.ScoringConfig) Options {
	return Options{
		Proportions: Proportions{
			Articles: agg.ArticleShare,
			Videos:   agg.VideoShare,
			Audio:    agg.AudioShare,
		},
		SharedTimeout:         agg.SharedTimeout,
		LargeRequestTimeout:   agg.LargeRequestTimeout,
		LargeRequestThreshold: agg.LargeRequestThreshold,
		PerCallTimeout:        agg.PerCallTimeout,
		MinScore:              agg.MinScore,
		MaxQueryFanout:        agg.MaxQueryFanout,
		ScoreConcurrency:      scoring.Concurrency,
	}
}

// Aggregator coordinates the three kind pipelines, the scorer and the cache.
type Aggregator struct {
	adapters providers.Set
	scorer   relevance.Scorer
	cache    *cache.Store
	opts     Options

	requests       atomic.Int64
	cacheHits      atomic.Int64
	lastDurationMS atomic.Int64

	failMu       sync.Mutex
	kindFailures map[models.Kind]int64
}

// New creates an Aggregator. The cache is injected so that tests and the
// admin endpoints share the same instance.
func New(adapters providers.Set, scorer relevance.Scorer, store *cache.Store, opts Options) *Aggregator {
	if store == nil {
		store = cache.New(cache.DefaultTTL)
	}
	if scorer == nil {
		scorer = relevance.NewFallbackScorer(nil, nil)
	}
	if opts.Proportions == (Proportions{}) {
		opts.Proportions = DefaultProportions()
	}
	if opts.SharedTimeout <= 0 {
		opts.SharedTimeout = DefaultSharedTimeout
	}
	if opts.LargeRequestTimeout <= 0 {
		opts.LargeRequestTimeout = DefaultLargeRequestTimeout
	}
	if opts.PerCallTimeout <= 0 {
		opts.PerCallTimeout = DefaultPerCallTimeout
	}
	if opts.ScoreConcurrency <= 0 {
		opts.ScoreConcurrency = relevance.DefaultConcurrency
	}

	return &Aggregator{
		adapters:     adapters,
		scorer:       scorer,
		cache:        store,
		opts:         opts,
		kindFailures: make(map[models.Kind]int64),
	}
}

// Cache returns the aggregator's store.
func (a *Aggregator) Cache() *cache.Store { return a.cache }

// Adapters returns the configured provider set.
func (a *Aggregator) Adapters() providers.Set { return a.adapters }

// SharedTimeout returns the deadline used for a request of total items.
func (a *Aggregator) SharedTimeout(total int) time.Duration {
	if total > a.opts.LargeRequestThreshold {
		return a.opts.LargeRequestTimeout
	}
	return a.opts.SharedTimeout
}

// Pipeline returns the pipeline for kind.
func (a *Aggregator) Pipeline(kind models.Kind) *Pipeline {
	return &Pipeline{
		Kind:           kind,
		Adapter:        a.adapters.ForKind(kind),
		Ranker:         relevance.Ranker{Scorer: a.scorer, Concurrency: a.opts.ScoreConcurrency},
		MinScore:       a.opts.MinScore,
		MaxQueryFanout: a.opts.MaxQueryFanout,
		PerCallTimeout: a.opts.PerCallTimeout,
	}
}

type kindOutcome struct {
	kind  models.Kind
	items []models.ContentItem
	err   error
}

// Aggregate returns up to total items split across the three kinds. It
// never fails: failed or unfinished kinds contribute empty lists. Results
// with at least one successful kind are cached; an all-failed result is not.
func (a *Aggregator) Aggregate(ctx context.Context, total int) models.AggregationResult {
	start := time.Now()
	a.requests.Add(1)

	if total <= 0 {
		return models.EmptyAggregationResult()
	}

	key := cache.Key(combinedKeyKind, map[string]any{"limit": total})
	if v, ok := a.cache.Get(key); ok {
		if cached, ok := v.(models.AggregationResult); ok {
			a.cacheHits.Add(1)
			metrics.AggregationRequests.WithLabelValues("cache_hit").Inc()
			return cached
		}
	}

	ctx = logging.ContextWithNewCorrelationID(ctx)
	log := logging.Ctx(ctx).With().Str("component", "aggregate").Int("limit", total).Logger()

	limits := SplitLimits(total, a.opts.Proportions)
	timeout := a.SharedTimeout(total)
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Debug().
		Int("articles", limits.Articles).
		Int("videos", limits.Videos).
		Int("audio", limits.Audio).
		Dur("deadline", timeout).
		Msg("Aggregation started")

	// Buffered so pipelines abandoned at the deadline never block on send.
	outcomes := make(chan kindOutcome, len(models.Kinds))
	for _, kind := range models.Kinds {
		p := a.Pipeline(kind)
		sub := limits.For(kind)
		go func() {
			items, err := p.Run(runCtx, sub)
			outcomes <- kindOutcome{kind: kind, items: items, err: err}
		}()
	}

	lists := make(map[models.Kind][]models.ContentItem, len(models.Kinds))
	pending := make(map[models.Kind]bool, len(models.Kinds))
	for _, kind := range models.Kinds {
		pending[kind] = true
	}
	failures := 0

collect:
	for len(pending) > 0 {
		select {
		case o := <-outcomes:
			delete(pending, o.kind)
			if o.err != nil {
				failures++
				a.recordFailure(o.kind, o.err)
				log.Warn().Err(o.err).Str("kind", string(o.kind)).Msg("Kind failed, contributing no items")
				continue
			}
			lists[o.kind] = o.items
		case <-runCtx.Done():
			for kind := range pending {
				failures++
				a.recordFailure(kind, runCtx.Err())
				log.Warn().Str("kind", string(kind)).Dur("deadline", timeout).Msg("Shared deadline reached, abandoning kind")
			}
			break collect
		}
	}

	result := models.NewAggregationResult(lists[models.KindArticle], lists[models.KindVideo], lists[models.KindAudio])
	elapsed := time.Since(start)
	a.lastDurationMS.Store(elapsed.Milliseconds())

	outcome := "ok"
	switch {
	case failures == len(models.Kinds):
		outcome = "failed"
		log.Error().Dur("elapsed", elapsed).Msg("Every kind failed, returning empty result without caching")
	case ctx.Err() != nil:
		// The caller went away; what we have may be truncated by that, not
		// by the providers.
		outcome = "canceled"
	default:
		if failures > 0 {
			outcome = "partial"
		}
		a.cache.Set(key, result)
	}

	metrics.AggregationRequests.WithLabelValues(outcome).Inc()
	metrics.AggregationDuration.Observe(elapsed.Seconds())
	for _, kind := range models.Kinds {
		metrics.AggregationItems.WithLabelValues(string(kind)).Observe(float64(len(result.ForKind(kind))))
	}

	log.Info().
		Str("outcome", outcome).
		Int("total_items", result.TotalItems).
		Int("failed_kinds", failures).
		Dur("elapsed", elapsed).
		Msg("Aggregation complete")
	return result
}

// FetchKind returns up to limit items of a single kind, using the same
// pipeline, deadline rules and cache as Aggregate. Failures yield an empty,
// uncached list.
func (a *Aggregator) FetchKind(ctx context.Context, kind models.Kind, limit int) []models.ContentItem {
	start := time.Now()
	a.requests.Add(1)

	if limit <= 0 || !kind.Valid() {
		return []models.ContentItem{}
	}

	key := cache.Key(string(kind), map[string]any{"limit": limit})
	if v, ok := a.cache.Get(key); ok {
		if cached, ok := v.([]models.ContentItem); ok {
			a.cacheHits.Add(1)
			metrics.AggregationRequests.WithLabelValues("cache_hit").Inc()
			return cached
		}
	}

	ctx = logging.ContextWithNewCorrelationID(ctx)
	runCtx, cancel := context.WithTimeout(ctx, a.SharedTimeout(limit))
	defer cancel()

	items, err := a.Pipeline(kind).Run(runCtx, limit)
	elapsed := time.Since(start)
	a.lastDurationMS.Store(elapsed.Milliseconds())
	metrics.AggregationDuration.Observe(elapsed.Seconds())

	if err != nil {
		a.recordFailure(kind, err)
		metrics.AggregationRequests.WithLabelValues("failed").Inc()
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("component", "aggregate").
			Str("kind", string(kind)).
			Int("limit", limit).
			Msg("Single-kind fetch failed, returning no items")
		return []models.ContentItem{}
	}

	metrics.AggregationRequests.WithLabelValues("ok").Inc()
	metrics.AggregationItems.WithLabelValues(string(kind)).Observe(float64(len(items)))
	if ctx.Err() == nil {
		a.cache.Set(key, items)
	}
	return items
}

func (a *Aggregator) recordFailure(kind models.Kind, err error) {
	a.failMu.Lock()
	a.kindFailures[kind]++
	a.failMu.Unlock()
	metrics.RecordPipelineFailure(string(kind), err)
}

// Stats returns the running counters.
func (a *Aggregator) Stats() models.AggregatorStats {
	a.failMu.Lock()
	failures := make(map[string]int64, len(a.kindFailures))
	for k, v := range a.kindFailures {
		failures[string(k)] = v
	}
	a.failMu.Unlock()

	return models.AggregatorStats{
		Requests:       a.requests.Load(),
		CacheHits:      a.cacheHits.Load(),
		KindFailures:   failures,
		LastDurationMS: a.lastDurationMS.Load(),
	}
}
