// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/tomtom215/wellspring/internal/config"
	"github.com/tomtom215/wellspring/internal/models"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Mindful Weekly</title>
    <link>https://mindful.example.com</link>
    <description>Notes on mental wellbeing</description>
    <item>
      <title>Managing anxiety at work</title>
      <link>https://mindful.example.com/anxiety-at-work</link>
      <description>&lt;p&gt;Simple grounding exercises&lt;/p&gt;</description>
      <pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate>
      <enclosure url="https://mindful.example.com/a.png" length="100" type="image/png"/>
    </item>
    <item>
      <title>Garden update</title>
      <link>https://mindful.example.com/garden</link>
      <description>Tomatoes are in</description>
    </item>
    <item>
      <title>Sleep and stress</title>
      <link>https://mindful.example.com/sleep</link>
      <description>Why rest matters for anxiety</description>
    </item>
  </channel>
</rss>`

func newFeedServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFixture))
	})
	mux.HandleFunc("/broken.xml", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRSS_SearchFiltersByQuery(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newFeedServer(t, &hits)

	r := NewRSS(config.RSSConfig{Feeds: []string{srv.URL + "/feed.xml"}, Placeholder: "/ph/article.svg"}, srv.Client(), "test-agent")

	entries, err := r.Search(context.Background(), "anxiety coping strategies", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	item := r.Normalize(entries[0])
	if item.Kind != models.KindArticle || item.Title != "Managing anxiety at work" {
		t.Errorf("unexpected item %+v", item)
	}
	if item.Description != "Simple grounding exercises" {
		t.Errorf("Description = %q", item.Description)
	}
	if item.ImageURL != "https://mindful.example.com/a.png" {
		t.Errorf("ImageURL = %q", item.ImageURL)
	}
	if item.SourceMeta["source"] != "Mindful Weekly" || item.SourceMeta["publishedAt"] != "2025-06-02T10:00:00Z" {
		t.Errorf("SourceMeta = %v", item.SourceMeta)
	}

	if got := r.Normalize(entries[1]).ImageURL; got != "/ph/article.svg" {
		t.Errorf("ImageURL = %q, want placeholder", got)
	}
}

func TestRSS_ReusesParsedFeed(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newFeedServer(t, &hits)
	r := NewRSS(config.RSSConfig{Feeds: []string{srv.URL + "/feed.xml"}}, srv.Client(), "")

	for _, q := range []string{"anxiety", "sleep", "stress"} {
		if _, err := r.Search(context.Background(), q, 10); err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("feed fetched %d times, want 1", got)
	}
}

func TestRSS_LimitAndPartialFailure(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newFeedServer(t, &hits)
	r := NewRSS(config.RSSConfig{Feeds: []string{srv.URL + "/broken.xml", srv.URL + "/feed.xml"}}, srv.Client(), "")

	entries, err := r.Search(context.Background(), "anxiety", 1)
	if err != nil {
		t.Fatalf("one healthy feed should be enough: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries, want 1", len(entries))
	}
}

func TestRSS_AllFeedsFail(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newFeedServer(t, &hits)
	r := NewRSS(config.RSSConfig{Feeds: []string{srv.URL + "/broken.xml"}}, srv.Client(), "")

	if _, err := r.Search(context.Background(), "anxiety", 5); err == nil {
		t.Error("expected error when every feed fails")
	}
}

func TestQueryTerms(t *testing.T) {
	t.Parallel()

	got := queryTerms(`Tips for "Anxiety" and sleep`)
	want := []string{"tips", "anxiety", "sleep"}
	if len(got) != len(want) {
		t.Fatalf("queryTerms = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("term %d = %q, want %q", i, got[i], want[i])
		}
	}
	if !matchesAny("anything", nil) {
		t.Error("no terms should match everything")
	}
}
