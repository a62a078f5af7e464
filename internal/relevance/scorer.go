// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

// Package relevance scores content items for mental-health relevance on a
// 0-100 scale and ranks them.
//
// Two scorers implement the Scorer capability:
//
//   - AIScorer asks a language model to grade the item against a rubric.
//   - KeywordScorer is a pure, deterministic function of the text, built
//     from weighted keyword tiers.
//
// FallbackScorer composes them: every item is tried on the primary and
// falls back to the keyword scorer on any error, timeout or open breaker,
// so scoring as a whole never fails. FilterAndRank scores a batch with
// bounded concurrency, drops items below the threshold and sorts the rest.
package relevance

import (
	"context"
	"errors"
)

// ErrUnparsableScore is returned when a model reply does not contain an
// integer in [0,100].
var ErrUnparsableScore = errors.New("relevance: unparsable score")

// MinScore and MaxScore bound every score.
const (
	MinScore = 0
	MaxScore = 100
)

// Scorer rates one item's relevance.
type Scorer interface {
	Score(ctx context.Context, title, description string) (int, error)
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(ctx context.Context, title, description string) (int, error)

// Score calls f.
func (f ScorerFunc) Score(ctx context.Context, title, description string) (int, error) {
	return f(ctx, title, description)
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
