// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

/*
Package aggregate is the aggregation orchestrator: it turns "give me N items"
into one typed, ranked AggregationResult assembled from three unreliable
provider kinds.

# Flow

	Aggregate(ctx, N)
	  cache hit?  ──yes──▶ return cached result
	  SplitLimits(N)          42% / 33% / 25%, each rounded up, each ≥ 1
	  shared deadline         15s, or 25s when N > 30
	  ┌ Pipeline(article) ┐
	  ├ Pipeline(video)   ┤  concurrently; results over a buffered channel
	  └ Pipeline(audio)   ┘
	  collect until all three report or the deadline fires
	  failed / unfinished kinds contribute []
	  cache (unless every kind failed) and return

Each Pipeline selects its queries (internal/queries), fans them out to the
kind's adapter with a per-call timeout, merges and de-duplicates the items,
scores and ranks them (internal/relevance) and truncates to the sub-limit.

# Failure model

Nothing here returns an error to the HTTP layer. A failing query is logged
and skipped; a failing kind contributes an empty list; if every kind fails
the result is the well-formed empty result, which is not cached so the next
request retries the providers. Pipelines abandoned at the deadline keep
running until their context cancellation lands, and their results are
dropped into a buffered channel nobody reads.
*/
package aggregate
