// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/tomtom215/wellspring/internal/config"
)

const spotifyFixture = `{
  "playlists": {
    "items": [
      {"id": "pl1", "name": "Calm Piano", "description": "Soft piano for &lt;b&gt;sleep&lt;/b&gt;",
       "external_urls": {"spotify": "https://open.spotify.com/playlist/pl1"},
       "images": [{"url": "https://i.scdn.co/pl1.jpg", "width": 640, "height": 640}],
       "owner": {"id": "u1", "display_name": "Wellness Radio"}, "tracks": {"total": 42}},
      null,
      {"id": "pl2", "name": "Focus", "description": "", "external_urls": {}, "images": [],
       "owner": {"id": "u2", "display_name": "Someone"}, "tracks": {"total": 7}}
    ]
  }
}`

func TestSpotify_ClientCredentialsAndSearch(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		id, secret, ok := r.BasicAuth()
		if !ok || id != "client-id" || secret != "client-secret" {
			t.Errorf("bad client credentials: %q %q %v", id, secret, ok)
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("grant_type = %q", r.PostForm.Get("grant_type"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Query().Get("type") != "playlist" || r.URL.Query().Get("market") != "US" {
			t.Errorf("unexpected query %v", r.URL.Query())
		}
		_, _ = w.Write([]byte(spotifyFixture))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewSpotify(config.SpotifyConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/api/token",
		Market:       "US",
		Placeholder:  "/ph/audio.svg",
	}, srv.Client(), "")

	for i := 0; i < 2; i++ {
		playlists, err := s.Search(context.Background(), "sleep music", 10)
		if err != nil {
			t.Fatalf("Search %d: %v", i, err)
		}
		if len(playlists) != 2 {
			t.Fatalf("got %d playlists, want 2 (null skipped)", len(playlists))
		}
	}
	if got := tokenCalls.Load(); got != 1 {
		t.Errorf("token endpoint called %d times, want 1 (token reused)", got)
	}

	playlists, _ := s.Search(context.Background(), "sleep music", 10)
	first := s.Normalize(playlists[0])
	if first.ID != "audio:pl1" || first.URL != "https://open.spotify.com/playlist/pl1" {
		t.Errorf("unexpected identity %q %q", first.ID, first.URL)
	}
	if first.Description != "Soft piano for sleep" {
		t.Errorf("Description = %q", first.Description)
	}
	if first.SourceMeta["owner"] != "Wellness Radio" || first.SourceMeta["trackCount"] != 42 {
		t.Errorf("SourceMeta = %v", first.SourceMeta)
	}

	second := s.Normalize(playlists[1])
	if second.URL != "https://open.spotify.com/playlist/pl2" {
		t.Errorf("fallback URL = %q", second.URL)
	}
	if second.ImageURL != "/ph/audio.svg" {
		t.Errorf("ImageURL = %q, want placeholder", second.ImageURL)
	}
}

func TestSpotify_NotConfigured(t *testing.T) {
	t.Parallel()

	s := NewSpotify(config.SpotifyConfig{ClientID: "only-id"}, nil, "")
	if s.Configured() {
		t.Error("expected unconfigured without secret")
	}
	if _, err := s.Search(context.Background(), "q", 5); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
