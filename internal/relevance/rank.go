// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package relevance

import (
	"cmp"
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/models"
)

// DefaultConcurrency is how many items are scored at once.
const DefaultConcurrency = 4

// Ranker scores, filters and orders batches of items.
type Ranker struct {
	Scorer      Scorer
	Concurrency int
}

// FilterAndRank scores items with the default concurrency. See Ranker.FilterAndRank.
func FilterAndRank(ctx context.Context, scorer Scorer, items []models.ContentItem, minScore int) []models.ContentItem {
	r := Ranker{Scorer: scorer, Concurrency: DefaultConcurrency}
	return r.FilterAndRank(ctx, items, minScore)
}

// FilterAndRank scores every item independently, keeps those scoring at
// least minScore and returns them sorted by descending score. Items with
// equal scores keep their input order. An item whose scorer errors is
// dropped; it never aborts the batch. The input slice is not modified.
func (r Ranker) FilterAndRank(ctx context.Context, items []models.ContentItem, minScore int) []models.ContentItem {
	if len(items) == 0 {
		return []models.ContentItem{}
	}

	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	scored := make([]models.ContentItem, len(items))
	ok := make([]bool, len(items))

	var g errgroup.Group
	g.SetLimit(limit)
	for i := range items {
		g.Go(func() error {
			item := items[i]
			score, err := r.Scorer.Score(ctx, item.Title, item.Description)
			if err != nil {
				logging.Ctx(ctx).Warn().
					Err(err).
					Str("component", "relevance").
					Str("item_id", item.ID).
					Msg("Item could not be scored, dropping")
				return nil
			}
			scored[i] = item.WithScore(clamp(score))
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	kept := make([]models.ContentItem, 0, len(items))
	for i, item := range scored {
		if ok[i] && item.Score() >= minScore {
			kept = append(kept, item)
		}
	}

	slices.SortStableFunc(kept, func(a, b models.ContentItem) int {
		return cmp.Compare(b.Score(), a.Score())
	})
	return kept
}
