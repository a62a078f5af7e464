// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package dedupe

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/tomtom215/wellspring/internal/models"
)

func item(id, title, url string) models.ContentItem {
	return models.ContentItem{ID: id, Kind: models.KindArticle, Title: title, URL: url}
}

func TestDedupe_FirstWinsOrderPreserved(t *testing.T) {
	t.Parallel()

	in := []string{"b", "a", "b", "c", "a", "d"}
	got := Dedupe(in, func(s string) string { return s })
	want := []string{"b", "a", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dedupe = %v, want %v", got, want)
	}
}

func TestDedupe_EmptyKeysKept(t *testing.T) {
	t.Parallel()

	in := []models.ContentItem{item("", "", ""), item("", "", ""), item("x", "", "")}
	if got := Dedupe(in, ByID); len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestDedupe_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := [][]models.ContentItem{
		nil,
		{item("1", "A", "u1")},
		{item("1", "A", "u1"), item("1", "A", "u1"), item("2", "B", "u2"), item("3", "A", "u1/")},
	}
	for _, in := range inputs {
		once := Items(in)
		twice := Items(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("not idempotent: %v vs %v", once, twice)
		}
		if len(once) > len(in) {
			t.Errorf("output longer than input: %d > %d", len(once), len(in))
		}
	}
}

func TestByTitleURL_Normalizes(t *testing.T) {
	t.Parallel()

	a := item("1", "Coping  With Anxiety", "https://example.com/a/")
	b := item("2", "coping with anxiety", "https://example.com/a")
	if ByTitleURL(a) != ByTitleURL(b) {
		t.Errorf("%q != %q", ByTitleURL(a), ByTitleURL(b))
	}
	if got := Items([]models.ContentItem{a, b}); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("Items = %v", got)
	}
}

func TestDedupe_Large(t *testing.T) {
	t.Parallel()

	in := make([]string, 0, 10000)
	for i := 0; i < 10000; i++ {
		in = append(in, strconv.Itoa(i%100))
	}
	if got := Dedupe(in, func(s string) string { return s }); len(got) != 100 {
		t.Errorf("len = %d, want 100", len(got))
	}
}
