// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

/*
Package providers holds the external content sources and the adapter layer
the aggregation pipelines call.

Each source implements Source[R]: it searches one upstream API and returns
that API's raw records (R), and it knows how to normalize one record into a
models.ContentItem. Adapt wraps a source into the kind-agnostic Adapter the
pipeline uses, adding:

  - ErrNotConfigured when credentials are missing (the pipeline treats this
    as an empty, successful result)
  - an outbound token-bucket rate limit (golang.org/x/time/rate)
  - a circuit breaker (sony/gobreaker) so a dead upstream is skipped
  - per-call metrics

Sources:

	NewsAPI   articles   GET /v2/everything (API key)
	RSS       articles   configured feeds, parsed with gofeed, filtered by query
	YouTube   videos     GET /youtube/v3/search (API key)
	Spotify   audio      GET /v1/search?type=playlist (OAuth2 client credentials)

NewsAPI and RSS are combined into one article Adapter by Combine.

Credentials never appear in logs or errors: request URLs are passed through
logging.RedactURL before they are attached to an error.
*/
package providers
