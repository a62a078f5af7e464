// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package aggregate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/wellspring/internal/cache"
	"github.com/tomtom215/wellspring/internal/models"
	"github.com/tomtom215/wellspring/internal/providers"
	"github.com/tomtom215/wellspring/internal/relevance"
)

// fakeAdapter returns limit synthetic items per query.
type fakeAdapter struct {
	kind       models.Kind
	configured bool
	err        error
	block      bool   // wait for ctx cancellation
	dup        bool   // every query returns the same items
	failQuery  string // only this query fails
	calls      atomic.Int32
}

func healthy(kind models.Kind) *fakeAdapter {
	return &fakeAdapter{kind: kind, configured: true}
}

func (f *fakeAdapter) Kind() models.Kind { return f.kind }
func (f *fakeAdapter) Name() string      { return "fake-" + string(f.kind) }
func (f *fakeAdapter) Configured() bool  { return f.configured }

func (f *fakeAdapter) Fetch(ctx context.Context, query string, limit int) ([]models.ContentItem, error) {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	if query == f.failQuery {
		return nil, errors.New("query failed")
	}

	items := make([]models.ContentItem, limit)
	for i := range items {
		key := query
		if f.dup {
			key = "same"
		}
		id := fmt.Sprintf("%s:%s:%d", f.kind, key, i)
		items[i] = models.ContentItem{ID: id, Kind: f.kind, Title: id, URL: "https://example.com/" + id}
	}
	return items, nil
}

func constScorer(score int) relevance.Scorer {
	return relevance.ScorerFunc(func(context.Context, string, string) (int, error) {
		return score, nil
	})
}

func newTestAggregator(articles, videos, audio providers.Adapter, opts Options) *Aggregator {
	set := providers.Set{Articles: articles, Videos: videos, Audio: audio}
	return New(set, constScorer(80), cache.New(time.Minute), opts)
}

func assertWellFormed(t *testing.T, r models.AggregationResult) {
	t.Helper()
	if r.Articles == nil || r.Videos == nil || r.Audio == nil {
		t.Fatalf("result has nil lists: %+v", r)
	}
	if r.TotalItems != len(r.Articles)+len(r.Videos)+len(r.Audio) {
		t.Fatalf("TotalItems = %d, lists hold %d", r.TotalItems, len(r.Articles)+len(r.Videos)+len(r.Audio))
	}
}

func TestAggregate_SplitsThirty(t *testing.T) {
	t.Parallel()

	agg := newTestAggregator(healthy(models.KindArticle), healthy(models.KindVideo), healthy(models.KindAudio), DefaultOptions())

	start := time.Now()
	r := agg.Aggregate(context.Background(), 30)
	if elapsed := time.Since(start); elapsed > DefaultSharedTimeout {
		t.Errorf("took %v, longer than the shared deadline", elapsed)
	}

	assertWellFormed(t, r)
	if len(r.Articles) != 13 || len(r.Videos) != 10 || len(r.Audio) != 8 {
		t.Errorf("got %d/%d/%d, want 13/10/8", len(r.Articles), len(r.Videos), len(r.Audio))
	}
	for _, item := range append(append(r.Articles, r.Videos...), r.Audio...) {
		if !item.Scored() {
			t.Fatalf("unscored item %s in result", item.ID)
		}
	}
}

func TestAggregate_CachedWithinTTL(t *testing.T) {
	t.Parallel()

	a, v, au := healthy(models.KindArticle), healthy(models.KindVideo), healthy(models.KindAudio)
	agg := newTestAggregator(a, v, au, DefaultOptions())

	first := agg.Aggregate(context.Background(), 10)
	calls := a.calls.Load() + v.calls.Load() + au.calls.Load()
	if calls == 0 {
		t.Fatal("first call should reach the providers")
	}

	second := agg.Aggregate(context.Background(), 10)
	if got := a.calls.Load() + v.calls.Load() + au.calls.Load(); got != calls {
		t.Errorf("second call made %d extra provider calls", got-calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached result differs from the first result")
	}

	st := agg.Stats()
	if st.Requests != 2 || st.CacheHits != 1 {
		t.Errorf("Stats = %+v, want 2 requests / 1 hit", st)
	}
}

func TestAggregate_PartialFailure(t *testing.T) {
	t.Parallel()

	broken := &fakeAdapter{kind: models.KindVideo, configured: true, err: errors.New("503")}
	agg := newTestAggregator(healthy(models.KindArticle), broken, healthy(models.KindAudio), DefaultOptions())

	r := agg.Aggregate(context.Background(), 30)
	assertWellFormed(t, r)
	if len(r.Videos) != 0 {
		t.Errorf("failed kind returned %d items", len(r.Videos))
	}
	if len(r.Articles) != 13 || len(r.Audio) != 8 {
		t.Errorf("surviving kinds: %d articles, %d audio", len(r.Articles), len(r.Audio))
	}
	if got := agg.Stats().KindFailures[string(models.KindVideo)]; got != 1 {
		t.Errorf("video failures = %d, want 1", got)
	}

	// Partial results are cached.
	before := broken.calls.Load()
	_ = agg.Aggregate(context.Background(), 30)
	if broken.calls.Load() != before {
		t.Error("partial result was not cached")
	}
}

func TestAggregate_SharedDeadlineAbandonsSlowKind(t *testing.T) {
	t.Parallel()

	slow := &fakeAdapter{kind: models.KindAudio, configured: true, block: true}
	opts := DefaultOptions()
	opts.SharedTimeout = 100 * time.Millisecond
	opts.PerCallTimeout = 5 * time.Second
	agg := newTestAggregator(healthy(models.KindArticle), healthy(models.KindVideo), slow, opts)

	start := time.Now()
	r := agg.Aggregate(context.Background(), 20)
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Errorf("Aggregate took %v with a 100ms deadline", elapsed)
	}
	assertWellFormed(t, r)
	if len(r.Audio) != 0 {
		t.Errorf("abandoned kind returned %d items", len(r.Audio))
	}
	if len(r.Articles) != 9 || len(r.Videos) != 7 {
		t.Errorf("got %d/%d, want 9/7", len(r.Articles), len(r.Videos))
	}
}

func TestAggregate_PerCallTimeout(t *testing.T) {
	t.Parallel()

	slow := &fakeAdapter{kind: models.KindVideo, configured: true, block: true}
	opts := DefaultOptions()
	opts.PerCallTimeout = 50 * time.Millisecond
	agg := newTestAggregator(healthy(models.KindArticle), slow, healthy(models.KindAudio), opts)

	start := time.Now()
	r := agg.Aggregate(context.Background(), 10)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("per-call timeout not applied, took %v", elapsed)
	}
	if len(r.Videos) != 0 || len(r.Articles) != 5 {
		t.Errorf("got %d articles, %d videos", len(r.Articles), len(r.Videos))
	}
}

func TestAggregate_AllFailNotCached(t *testing.T) {
	t.Parallel()

	mk := func(kind models.Kind) *fakeAdapter {
		return &fakeAdapter{kind: kind, configured: true, err: errors.New("down")}
	}
	a, v, au := mk(models.KindArticle), mk(models.KindVideo), mk(models.KindAudio)
	agg := newTestAggregator(a, v, au, DefaultOptions())

	r := agg.Aggregate(context.Background(), 30)
	assertWellFormed(t, r)
	if r.TotalItems != 0 {
		t.Errorf("TotalItems = %d, want 0", r.TotalItems)
	}
	if agg.Cache().Len() != 0 {
		t.Error("all-failed result must not be cached")
	}

	before := a.calls.Load()
	_ = agg.Aggregate(context.Background(), 30)
	if a.calls.Load() == before {
		t.Error("second request should retry the providers")
	}
}

func TestAggregate_UnconfiguredKindIsEmptySuccess(t *testing.T) {
	t.Parallel()

	off := &fakeAdapter{kind: models.KindAudio}
	agg := newTestAggregator(healthy(models.KindArticle), healthy(models.KindVideo), off, DefaultOptions())

	r := agg.Aggregate(context.Background(), 10)
	assertWellFormed(t, r)
	if len(r.Audio) != 0 || off.calls.Load() != 0 {
		t.Errorf("unconfigured adapter was used: %d items, %d calls", len(r.Audio), off.calls.Load())
	}
	if len(agg.Stats().KindFailures) != 0 {
		t.Errorf("unconfigured kind counted as failure: %v", agg.Stats().KindFailures)
	}
}

func TestAggregate_NonPositiveLimit(t *testing.T) {
	t.Parallel()

	a := healthy(models.KindArticle)
	agg := newTestAggregator(a, healthy(models.KindVideo), healthy(models.KindAudio), DefaultOptions())

	r := agg.Aggregate(context.Background(), 0)
	assertWellFormed(t, r)
	if r.TotalItems != 0 || a.calls.Load() != 0 {
		t.Errorf("limit 0 should do nothing, got %d items and %d calls", r.TotalItems, a.calls.Load())
	}
}

func TestAggregate_CallerCancellationNotCached(t *testing.T) {
	t.Parallel()

	slow := &fakeAdapter{kind: models.KindAudio, configured: true, block: true}
	agg := newTestAggregator(healthy(models.KindArticle), healthy(models.KindVideo), slow, DefaultOptions())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	r := agg.Aggregate(ctx, 10)
	assertWellFormed(t, r)

	if agg.Cache().Len() != 0 {
		t.Error("result of a canceled request must not be cached")
	}
}

func TestFetchKind(t *testing.T) {
	t.Parallel()

	v := healthy(models.KindVideo)
	agg := newTestAggregator(healthy(models.KindArticle), v, healthy(models.KindAudio), DefaultOptions())

	items := agg.FetchKind(context.Background(), models.KindVideo, 25)
	if len(items) != 25 {
		t.Fatalf("got %d items, want 25", len(items))
	}
	for _, item := range items {
		if item.Kind != models.KindVideo {
			t.Fatalf("wrong kind %s", item.Kind)
		}
	}

	calls := v.calls.Load()
	again := agg.FetchKind(context.Background(), models.KindVideo, 25)
	if v.calls.Load() != calls {
		t.Error("second FetchKind should be served from cache")
	}
	if !reflect.DeepEqual(items, again) {
		t.Error("cached items differ")
	}

	if _, ok := agg.Cache().Get(cache.Key("video", map[string]any{"limit": 25})); !ok {
		t.Error("expected per-kind cache entry")
	}
}

func TestFetchKind_FailureIsEmptyAndUncached(t *testing.T) {
	t.Parallel()

	broken := &fakeAdapter{kind: models.KindAudio, configured: true, err: errors.New("401")}
	agg := newTestAggregator(healthy(models.KindArticle), healthy(models.KindVideo), broken, DefaultOptions())

	items := agg.FetchKind(context.Background(), models.KindAudio, 20)
	if items == nil || len(items) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", items)
	}
	if agg.Cache().Len() != 0 {
		t.Error("failed fetch must not be cached")
	}

	if got := agg.FetchKind(context.Background(), models.Kind("podcast"), 5); len(got) != 0 {
		t.Errorf("unknown kind returned %d items", len(got))
	}
}

func TestSharedTimeout(t *testing.T) {
	t.Parallel()

	agg := newTestAggregator(nil, nil, nil, DefaultOptions())
	if got := agg.SharedTimeout(30); got != 15*time.Second {
		t.Errorf("SharedTimeout(30) = %v, want 15s", got)
	}
	if got := agg.SharedTimeout(31); got != 25*time.Second {
		t.Errorf("SharedTimeout(31) = %v, want 25s", got)
	}
}
