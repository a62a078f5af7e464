// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package queries

import (
	"reflect"
	"testing"

	"github.com/tomtom215/wellspring/internal/models"
)

func TestGenerate_DeterministicPerKind(t *testing.T) {
	t.Parallel()

	for _, kind := range models.Kinds {
		a, b := Generate(kind), Generate(kind)
		if len(a) < 6 {
			t.Errorf("%s: only %d queries, need at least 6", kind, len(a))
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: Generate not deterministic", kind)
		}
	}
	if len(Generate("podcast")) != 0 {
		t.Error("unknown kind should yield no queries")
	}
}

func TestGenerate_ReturnsCopy(t *testing.T) {
	t.Parallel()

	q := Generate(models.KindVideo)
	q[0] = "mutated"
	if Generate(models.KindVideo)[0] == "mutated" {
		t.Error("Generate must not expose the catalog")
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		needed, fanout, want int
	}{
		{1, 0, 2},
		{10, 0, 2},
		{11, 0, 4},
		{25, 0, 4},
		{26, 0, 6},
		{100, 0, 6},
		{100, 3, 3},
	}
	for _, tt := range tests {
		got := Select(models.KindArticle, tt.needed, tt.fanout)
		if len(got) != tt.want {
			t.Errorf("Select(needed=%d, fanout=%d) = %d queries, want %d", tt.needed, tt.fanout, len(got), tt.want)
		}
		if got[0] != Generate(models.KindArticle)[0] {
			t.Error("Select must return a prefix")
		}
	}
}

func TestPerQueryLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		needed, queries, want int
	}{
		{13, 4, 5},   // ceil(19.5/4)=5
		{42, 6, 11},  // ceil(63/6)=10.5 -> 11
		{1, 2, 5},    // floor at 5
		{100, 6, 25}, // ceil(150/6)=25
		{10, 0, 15},  // zero queries treated as one
	}
	for _, tt := range tests {
		if got := PerQueryLimit(tt.needed, tt.queries); got != tt.want {
			t.Errorf("PerQueryLimit(%d, %d) = %d, want %d", tt.needed, tt.queries, got, tt.want)
		}
	}
}
