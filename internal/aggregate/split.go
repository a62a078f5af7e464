// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package aggregate

import (
	"math"

	"github.com/tomtom215/wellspring/internal/models"
)

// Proportions is the share of a combined request given to each kind.
type Proportions struct {
	Articles float64
	Videos   float64
	Audio    float64
}

// DefaultProportions is the 42/33/25 split.
func DefaultProportions() Proportions {
	return Proportions{Articles: 0.42, Videos: 0.33, Audio: 0.25}
}

// Limits holds the per-kind sub-limits of one request.
type Limits struct {
	Articles int
	Videos   int
	Audio    int
}

// For returns the sub-limit for kind.
func (l Limits) For(kind models.Kind) int {
	switch kind {
	case models.KindArticle:
		return l.Articles
	case models.KindVideo:
		return l.Videos
	case models.KindAudio:
		return l.Audio
	default:
		return 0
	}
}

// Sum is the largest TotalItems a result built from l can have. Rounding
// every share up means it can exceed the requested total by up to two.
func (l Limits) Sum() int {
	return l.Articles + l.Videos + l.Audio
}

// SplitLimits divides total by p, rounding every share up and giving every
// kind at least one item when total > 0. SplitLimits(30, default) is 13/10/8.
func SplitLimits(total int, p Proportions) Limits {
	if total <= 0 {
		return Limits{}
	}
	share := func(f float64) int {
		// The epsilon keeps 100*0.07 (7.000000000000001) from rounding up to 8.
		n := int(math.Ceil(float64(total)*f - 1e-9))
		if n < 1 {
			return 1
		}
		return n
	}
	return Limits{
		Articles: share(p.Articles),
		Videos:   share(p.Videos),
		Audio:    share(p.Audio),
	}
}
