// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package cache

import (
	"fmt"
	"sort"
	"strings"
)

// Key builds a deterministic cache key from a kind and its parameters.
// Parameter names are sorted before concatenation, so
// Key("content", {a:1, b:2}) == Key("content", {b:2, a:1}).
//
//	Key("content", map[string]any{"limit": 30}) // "content:limit=30"
func Key(kind string, params map[string]any) string {
	if len(params) == 0 {
		return kind
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(kind)
	b.WriteByte(':')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		fmt.Fprint(&b, params[name])
	}
	return b.String()
}
