// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

// Package queries holds the pre-curated provider search queries for each
// content kind and decides how many of them a fetch should use.
//
// Lists are static and ordered best-first; nothing here touches the network
// or a random source, so the same request always issues the same queries.
package queries

import (
	"math"

	"github.com/tomtom215/wellspring/internal/models"
)

// MinPerQueryLimit is the smallest page requested from a provider per query.
const MinPerQueryLimit = 5

// overFetchFactor compensates for items lost to dedup and relevance filtering.
const overFetchFactor = 1.5

var catalog = map[models.Kind][]string{
	models.KindArticle: {
		"mental health",
		"anxiety coping strategies",
		"depression treatment research",
		"mindfulness wellbeing",
		"therapy mental wellness",
		"stress management psychology",
		"self-care emotional health",
		"burnout recovery",
	},
	models.KindVideo: {
		"guided meditation for anxiety",
		"mental health tips",
		"mindfulness meditation",
		"breathing exercises for stress",
		"cognitive behavioral therapy techniques",
		"depression coping skills",
		"sleep meditation relaxation",
		"self care mental health",
	},
	models.KindAudio: {
		"meditation",
		"calm relaxation",
		"mindfulness",
		"sleep sounds",
		"anxiety relief",
		"mental health podcast",
		"stress relief music",
		"focus ambient",
	},
}

// Generate returns the ordered query list for kind. The returned slice is a
// copy; callers may modify it.
func Generate(kind models.Kind) []string {
	src := catalog[kind]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Count returns how many queries a fetch needing n items should issue:
// 2 for n <= 10, 4 for n <= 25, otherwise 6. Larger requests spread over
// more distinct queries instead of paging deeper into one.
func Count(needed int) int {
	switch {
	case needed <= 10:
		return 2
	case needed <= 25:
		return 4
	default:
		return 6
	}
}

// Select returns the bounded prefix of Generate(kind) sized for needed items,
// capped at maxFanout when maxFanout > 0.
func Select(kind models.Kind, needed, maxFanout int) []string {
	all := Generate(kind)
	n := Count(needed)
	if maxFanout > 0 && n > maxFanout {
		n = maxFanout
	}
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

// PerQueryLimit returns the page size to request per query so that the
// combined queries over-fetch needed by 50%: ceil(needed*1.5/queries),
// never below MinPerQueryLimit.
func PerQueryLimit(needed, queryCount int) int {
	if queryCount <= 0 {
		queryCount = 1
	}
	limit := int(math.Ceil(float64(needed) * overFetchFactor / float64(queryCount)))
	if limit < MinPerQueryLimit {
		return MinPerQueryLimit
	}
	return limit
}
