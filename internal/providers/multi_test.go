// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/wellspring/internal/models"
)

func TestCombine_ConcatenatesInMemberOrder(t *testing.T) {
	t.Parallel()

	first := Adapt[string](&fakeSource{name: "m-first", configured: true, titles: []string{"a", "b"}}, Guard{})
	second := Adapt[string](&fakeSource{name: "m-second", configured: true, titles: []string{"c"}}, Guard{})
	m := Combine(models.KindVideo, first, second)

	items, err := m.Fetch(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, w := range want {
		if items[i].Title != w {
			t.Errorf("item %d = %q, want %q", i, items[i].Title, w)
		}
	}
	if m.Name() != "m-first+m-second" {
		t.Errorf("Name = %q", m.Name())
	}
}

func TestCombine_PartialFailure(t *testing.T) {
	t.Parallel()

	bad := Adapt[string](&fakeSource{name: "m-bad", configured: true, err: errors.New("down")}, Guard{})
	good := Adapt[string](&fakeSource{name: "m-good", configured: true, titles: []string{"x"}}, Guard{})

	items, err := Combine(models.KindVideo, bad, good).Fetch(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("expected partial success, got %v", err)
	}
	if len(items) != 1 || items[0].Title != "x" {
		t.Errorf("unexpected items %+v", items)
	}
}

func TestCombine_AllFail(t *testing.T) {
	t.Parallel()

	e1, e2 := errors.New("one"), errors.New("two")
	m := Combine(models.KindVideo,
		Adapt[string](&fakeSource{name: "m-f1", configured: true, err: e1}, Guard{}),
		Adapt[string](&fakeSource{name: "m-f2", configured: true, err: e2}, Guard{}),
	)

	_, err := m.Fetch(context.Background(), "q", 10)
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("expected both causes, got %v", err)
	}
}

func TestCombine_SkipsUnconfigured(t *testing.T) {
	t.Parallel()

	off := &fakeSource{name: "m-off"}
	on := Adapt[string](&fakeSource{name: "m-on", configured: true, titles: []string{"y"}}, Guard{})
	m := Combine(models.KindVideo, Adapt[string](off, Guard{}), on)

	if !m.Configured() {
		t.Error("expected Configured() with one configured member")
	}
	items, err := m.Fetch(context.Background(), "q", 10)
	if err != nil || len(items) != 1 {
		t.Fatalf("got %v, %v", items, err)
	}
	if off.calls.Load() != 0 {
		t.Error("unconfigured member was called")
	}

	none := Combine(models.KindVideo, Adapt[string](&fakeSource{name: "m-none"}, Guard{}))
	if none.Configured() {
		t.Error("expected Configured() == false")
	}
	if _, err := none.Fetch(context.Background(), "q", 10); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
