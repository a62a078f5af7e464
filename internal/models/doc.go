// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

/*
Package models defines the data structures shared by the aggregation pipeline,
the provider clients and the HTTP API.

Key Components:

  - ContentItem: one scored article, video or audio playlist
  - AggregationResult: the per-kind lists returned for a combined request
  - APIResponse: the {success, data, message} envelope every endpoint returns

Lifecycle:

ContentItems are built fresh by a provider normalizer on every fetch and are
not mutated once their RelevanceScore is set. An item whose score is nil has
not been scored and never appears in a result list. AggregationResults are
cached whole and shared between concurrent readers, so callers must treat
them as read-only.
*/
package models
