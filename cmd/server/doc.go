// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

/*
Package main is the entry point for the Wellspring server.

Wellspring fetches articles, videos and audio playlists from external
providers, scores each item for mental-health relevance, and serves the
ranked, cached result over HTTP.

# Application Architecture

	RootSupervisor ("wellspring")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── Cache janitor
	└── APISupervisor ("api-layer")
	    └── HTTP server (chi)

Component initialization order:

 1. Configuration: koanf v2 (.env, defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Scoring: language-model scorer behind a circuit breaker, keyword fallback
 4. Providers: NewsAPI + RSS (articles), YouTube (videos), Spotify (audio)
 5. Cache: TTL store shared by the aggregator and the admin endpoints
 6. Aggregator and HTTP router
 7. Supervisor tree

A provider without credentials is skipped and its kind returns an empty
list, so the server starts and answers with no keys configured at all.

# Example Usage

	export NEWS_API_KEY=...
	export YOUTUBE_API_KEY=...
	export SPOTIFY_CLIENT_ID=... SPOTIFY_CLIENT_SECRET=...
	export SCORING_PROVIDER=claude SCORING_API_KEY=...
	./wellspring

	curl 'http://localhost:8080/content?limit=30'

# Signal Handling

SIGINT and SIGTERM cancel the root context; the HTTP server drains
in-flight requests for server.shutdown_timeout before exiting.
*/
package main
