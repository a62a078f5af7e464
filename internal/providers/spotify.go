// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package providers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/tomtom215/wellspring/internal/config"
	"github.com/tomtom215/wellspring/internal/models"
)

const spotifyMaxLimit = 50

// SpotifyPlaylist is one playlist from Spotify's search endpoint.
type SpotifyPlaylist struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	Images []struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"images"`
	Owner struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type spotifySearchResponse struct {
	Playlists struct {
		// Spotify returns null entries for playlists it cannot show.
		Items []*SpotifyPlaylist `json:"items"`
	} `json:"playlists"`
}

// Spotify searches Spotify for playlists. Authentication uses the OAuth2
// client-credentials flow; tokens are cached and refreshed by the oauth2
// transport.
type Spotify struct {
	cfg       config.SpotifyConfig
	client    httpClient
	userAgent string
}

// NewSpotify creates the Spotify source. base carries the timeout and
// transport used for both token and API requests.
func NewSpotify(cfg config.SpotifyConfig, base *http.Client, userAgent string) *Spotify {
	s := &Spotify{cfg: cfg, userAgent: userAgent}
	if !cfg.Configured() {
		return s
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokenCtx := context.Background()
	if base != nil {
		tokenCtx = context.WithValue(tokenCtx, oauth2.HTTPClient, base)
	}
	s.client = cc.Client(tokenCtx)
	return s
}

func (s *Spotify) Kind() models.Kind { return models.KindAudio }
func (s *Spotify) Name() string      { return "spotify" }
func (s *Spotify) Configured() bool  { return s.cfg.Configured() && s.client != nil }

// Search returns up to limit playlists for query.
func (s *Spotify) Search(ctx context.Context, query string, limit int) ([]SpotifyPlaylist, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	if limit > spotifyMaxLimit {
		limit = spotifyMaxLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "playlist")
	params.Set("limit", strconv.Itoa(limit))
	if s.cfg.Market != "" {
		params.Set("market", s.cfg.Market)
	}
	reqURL := strings.TrimRight(s.cfg.BaseURL, "/") + "/v1/search?" + params.Encode()

	var header http.Header
	if s.userAgent != "" {
		header = http.Header{"User-Agent": []string{s.userAgent}}
	}

	var resp spotifySearchResponse
	if err := getJSON(ctx, s.client, s.Name(), reqURL, header, &resp); err != nil {
		return nil, err
	}

	playlists := make([]SpotifyPlaylist, 0, len(resp.Playlists.Items))
	for _, p := range resp.Playlists.Items {
		if p == nil || p.ID == "" {
			continue
		}
		playlists = append(playlists, *p)
	}
	return playlists, nil
}

// Normalize converts a playlist to a ContentItem keyed by playlist ID.
func (s *Spotify) Normalize(p SpotifyPlaylist) models.ContentItem {
	link := p.ExternalURLs.Spotify
	if link == "" {
		link = "https://open.spotify.com/playlist/" + url.PathEscape(p.ID)
	}

	var image string
	if len(p.Images) > 0 {
		image = p.Images[0].URL
	}

	return models.ContentItem{
		ID:          models.ContentID(models.KindAudio, p.ID, link, p.Name),
		Kind:        models.KindAudio,
		Title:       plainText(p.Name),
		Description: models.TruncateDescription(plainText(p.Description)),
		URL:         link,
		ImageURL:    models.ImageOr(image, s.cfg.Placeholder),
		SourceMeta: map[string]any{
			"owner":      p.Owner.DisplayName,
			"trackCount": p.Tracks.Total,
			"embedUrl":   "https://open.spotify.com/embed/playlist/" + url.PathEscape(p.ID),
		},
	}
}
