// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package relevance

import (
	"context"
	"time"

	"github.com/tomtom215/wellspring/internal/breaker"
	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/metrics"
)

// DefaultScoreTimeout bounds one primary scoring call.
const DefaultScoreTimeout = 8 * time.Second

// Scoring paths reported to metrics.
const (
	PathAI       = "ai"
	PathFallback = "fallback"
)

// FallbackScorer tries Primary and answers with Fallback whenever Primary
// is nil, fails, or exceeds Timeout. Fallback is expected to be infallible
// (a KeywordScorer); Score only returns an error if Fallback does.
type FallbackScorer struct {
	Primary  Scorer
	Fallback Scorer
	Timeout  time.Duration
}

// NewFallbackScorer returns a FallbackScorer with the default timeout.
// A nil fallback is replaced by the default keyword scorer.
func NewFallbackScorer(primary, fallback Scorer) *FallbackScorer {
	if fallback == nil {
		fallback = NewKeywordScorer(KeywordConfig{})
	}
	return &FallbackScorer{Primary: primary, Fallback: fallback, Timeout: DefaultScoreTimeout}
}

// Score implements Scorer.
func (f *FallbackScorer) Score(ctx context.Context, title, description string) (int, error) {
	score, _, err := f.ScoreWithPath(ctx, title, description)
	return score, err
}

// ScoreWithPath is Score that also reports which scorer produced the value.
func (f *FallbackScorer) ScoreWithPath(ctx context.Context, title, description string) (int, string, error) {
	// A done caller context goes straight to the fallback.
	if f.Primary != nil && ctx.Err() == nil {
		score, err := f.scorePrimary(ctx, title, description)
		if err == nil {
			metrics.ScoringPath.WithLabelValues(PathAI).Inc()
			return clamp(score), PathAI, nil
		}
		logging.Ctx(ctx).Debug().
			Err(err).
			Str("component", "relevance").
			Str("title", title).
			Msg("Primary scorer failed, using keyword fallback")
	}

	metrics.ScoringPath.WithLabelValues(PathFallback).Inc()
	score, err := f.Fallback.Score(ctx, title, description)
	if err != nil {
		return 0, PathFallback, err
	}
	return clamp(score), PathFallback, nil
}

func (f *FallbackScorer) scorePrimary(ctx context.Context, title, description string) (int, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultScoreTimeout
	}
	callCtx, cancel := breaker.WithCallTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		score int
		err   error
	}
	// Buffered so a primary that ignores ctx never blocks after we give up.
	done := make(chan result, 1)
	go func() {
		s, err := f.Primary.Score(callCtx, title, description)
		done <- result{s, err}
	}()

	select {
	case r := <-done:
		return r.score, r.err
	case <-callCtx.Done():
		return 0, callCtx.Err()
	}
}
