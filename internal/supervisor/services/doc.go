// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

/*
Package services adapts Wellspring components to suture's Serve pattern.

	type Service interface {
	    Serve(ctx context.Context) error
	}

HTTPServerService translates http.Server's blocking ListenAndServe into a
context-aware Serve with graceful Shutdown. CacheJanitorService sweeps
expired entries from the aggregation cache on a ticker.

Both implement fmt.Stringer so supervisor events name them.
*/
package services
