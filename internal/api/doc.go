// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

/*
Package api provides the HTTP surface of Wellspring.

Routes:

	GET  /content            combined articles, videos and audio (default limit 50)
	GET  /content/news       articles only (default limit 25)
	GET  /content/videos     videos only (default limit 25)
	GET  /content/music      audio playlists only (default limit 20)
	GET  /health/live        liveness probe
	GET  /health/ready       readiness probe with provider configuration
	GET  /metrics            Prometheus metrics
	GET  /admin/cache/stats  cache and aggregator counters
	POST /admin/cache/clear  drop every cached result

Every JSON endpoint answers with the models.APIResponse envelope:

	{"success": true, "data": {...}, "message": "Fetched 31 items"}

The content endpoints never fail because a provider failed; the aggregator
degrades to empty lists instead. A 500 is written only when building the
response itself panics, which the handler's fallback guard converts into

	{"success": false, "message": "Failed to fetch content", "error": "..."}

The limit query parameter falls back to the endpoint default when missing,
non-numeric or not positive, and is clamped to the configured maximum.

Middleware (global, in order): request ID with logging context, real IP,
panic recovery, CORS. Content routes add IP rate limiting (go-chi/httprate)
and Prometheus request metrics. Admin routes require the X-Admin-Token
header when security.admin_token is set.
*/
package api
