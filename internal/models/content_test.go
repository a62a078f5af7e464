// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

func TestContentID(t *testing.T) {
	t.Parallel()

	if got := ContentID(KindVideo, "abc123", "https://x", "t"); got != "video:abc123" {
		t.Errorf("provider ID form = %q", got)
	}

	a := ContentID(KindArticle, "", "https://example.com/a", "Coping with anxiety")
	b := ContentID(KindArticle, "", "https://example.com/a", "Coping with anxiety")
	if a != b {
		t.Errorf("hash IDs must be deterministic: %q != %q", a, b)
	}
	if len(a) != 16 {
		t.Errorf("hash ID length = %d, want 16", len(a))
	}
	if a == ContentID(KindVideo, "", "https://example.com/a", "Coping with anxiety") {
		t.Error("kind must participate in the hash")
	}
}

func TestTruncateDescription(t *testing.T) {
	t.Parallel()

	short := "  Mindfulness basics  "
	if got := TruncateDescription(short); got != "Mindfulness basics" {
		t.Errorf("short = %q", got)
	}

	long := strings.Repeat("é", MaxDescriptionRunes+50)
	got := TruncateDescription(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis, got suffix %q", got[len(got)-6:])
	}
	if n := utf8.RuneCountInString(got); n != MaxDescriptionRunes+3 {
		t.Errorf("rune count = %d, want %d", n, MaxDescriptionRunes+3)
	}
}

func TestImageOr(t *testing.T) {
	t.Parallel()

	if got := ImageOr("", "/p.svg"); got != "/p.svg" {
		t.Errorf("empty image = %q", got)
	}
	if got := ImageOr("https://img", "/p.svg"); got != "https://img" {
		t.Errorf("present image = %q", got)
	}
}

func TestEmptyAggregationResult_EncodesEmptyLists(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(EmptyAggregationResult())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"articles":[],"videos":[],"audio":[],"totalItems":0}`
	if string(data) != want {
		t.Errorf("encoded = %s, want %s", data, want)
	}
}

func TestNewAggregationResult_Total(t *testing.T) {
	t.Parallel()

	item := ContentItem{ID: "1"}.WithScore(80)
	r := NewAggregationResult([]ContentItem{item, item}, nil, []ContentItem{item})
	if r.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want 3", r.TotalItems)
	}
	if r.Videos == nil {
		t.Error("nil list must be replaced")
	}
	if len(r.ForKind(KindAudio)) != 1 {
		t.Error("ForKind(audio) mismatch")
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	var unscored ContentItem
	if unscored.Scored() || unscored.Score() != -1 {
		t.Error("zero item must be unscored")
	}
	scored := unscored.WithScore(0)
	if !scored.Scored() || scored.Score() != 0 {
		t.Error("score 0 must be distinguishable from unscored")
	}
	if unscored.Scored() {
		t.Error("WithScore must not mutate the receiver")
	}
}
