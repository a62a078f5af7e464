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

	"github.com/tomtom215/wellspring/internal/config"
	"github.com/tomtom215/wellspring/internal/models"
)

const youtubeMaxResults = 50

type youtubeThumbnail struct {
	URL string `json:"url"`
}

// YouTubeVideo is one search result from the YouTube Data API v3.
type YouTubeVideo struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ChannelID    string `json:"channelId"`
		ChannelTitle string `json:"channelTitle"`
		PublishedAt  string `json:"publishedAt"`
		Thumbnails   struct {
			Default youtubeThumbnail `json:"default"`
			Medium  youtubeThumbnail `json:"medium"`
			High    youtubeThumbnail `json:"high"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

type youtubeSearchResponse struct {
	Items []YouTubeVideo `json:"items"`
}

// YouTube searches YouTube for embeddable videos.
type YouTube struct {
	cfg       config.YouTubeConfig
	client    httpClient
	userAgent string
}

// NewYouTube creates the YouTube source.
func NewYouTube(cfg config.YouTubeConfig, client *http.Client, userAgent string) *YouTube {
	return &YouTube{cfg: cfg, client: client, userAgent: userAgent}
}

func (y *YouTube) Kind() models.Kind { return models.KindVideo }
func (y *YouTube) Name() string      { return "youtube" }
func (y *YouTube) Configured() bool  { return y.cfg.Configured() }

// Search returns up to limit videos for query with strict safe search.
func (y *YouTube) Search(ctx context.Context, query string, limit int) ([]YouTubeVideo, error) {
	if !y.Configured() {
		return nil, ErrNotConfigured
	}
	if limit > youtubeMaxResults {
		limit = youtubeMaxResults
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("safeSearch", "strict")
	params.Set("videoEmbeddable", "true")
	params.Set("relevanceLanguage", "en")
	params.Set("key", y.cfg.APIKey)
	reqURL := strings.TrimRight(y.cfg.BaseURL, "/") + "/youtube/v3/search?" + params.Encode()

	var header http.Header
	if y.userAgent != "" {
		header = http.Header{"User-Agent": []string{y.userAgent}}
	}

	var resp youtubeSearchResponse
	if err := getJSON(ctx, y.client, y.Name(), reqURL, header, &resp); err != nil {
		return nil, err
	}

	videos := make([]YouTubeVideo, 0, len(resp.Items))
	for _, v := range resp.Items {
		if v.ID.VideoID == "" {
			continue
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// Normalize converts a search result to a ContentItem keyed by video ID.
func (y *YouTube) Normalize(v YouTubeVideo) models.ContentItem {
	id := v.ID.VideoID
	watchURL := "https://www.youtube.com/watch?v=" + url.QueryEscape(id)

	thumb := v.Snippet.Thumbnails.High.URL
	if thumb == "" {
		thumb = v.Snippet.Thumbnails.Medium.URL
	}
	if thumb == "" {
		thumb = v.Snippet.Thumbnails.Default.URL
	}

	return models.ContentItem{
		ID:          models.ContentID(models.KindVideo, id, watchURL, v.Snippet.Title),
		Kind:        models.KindVideo,
		Title:       plainText(v.Snippet.Title),
		Description: models.TruncateDescription(plainText(v.Snippet.Description)),
		URL:         watchURL,
		ImageURL:    models.ImageOr(thumb, y.cfg.Placeholder),
		SourceMeta: map[string]any{
			"channel":     plainText(v.Snippet.ChannelTitle),
			"channelId":   v.Snippet.ChannelID,
			"embedUrl":    "https://www.youtube.com/embed/" + url.PathEscape(id),
			"publishedAt": v.Snippet.PublishedAt,
		},
	}
}
