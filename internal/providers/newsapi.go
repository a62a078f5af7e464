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
	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/models"
)

// newsAPIMaxPageSize is the largest pageSize NewsAPI accepts.
const newsAPIMaxPageSize = 100

// NewsArticle is one record from NewsAPI's /v2/everything.
type NewsArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

type newsAPIResponse struct {
	Status   string        `json:"status"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Articles []NewsArticle `json:"articles"`
}

// NewsAPI searches newsapi.org for articles.
type NewsAPI struct {
	cfg       config.NewsConfig
	client    httpClient
	userAgent string
}

// NewNewsAPI creates the NewsAPI source.
func NewNewsAPI(cfg config.NewsConfig, client *http.Client, userAgent string) *NewsAPI {
	return &NewsAPI{cfg: cfg, client: client, userAgent: userAgent}
}

func (n *NewsAPI) Kind() models.Kind { return models.KindArticle }
func (n *NewsAPI) Name() string      { return "newsapi" }
func (n *NewsAPI) Configured() bool  { return n.cfg.Configured() }

// Search returns up to limit articles matching query, newest relevance first.
func (n *NewsAPI) Search(ctx context.Context, query string, limit int) ([]NewsArticle, error) {
	if !n.Configured() {
		return nil, ErrNotConfigured
	}
	if limit > newsAPIMaxPageSize {
		limit = newsAPIMaxPageSize
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("sortBy", "relevancy")
	params.Set("searchIn", "title,description")
	if n.cfg.Language != "" {
		params.Set("language", n.cfg.Language)
	}
	reqURL := strings.TrimRight(n.cfg.BaseURL, "/") + "/v2/everything?" + params.Encode()

	header := http.Header{}
	header.Set("X-Api-Key", n.cfg.APIKey)
	if n.userAgent != "" {
		header.Set("User-Agent", n.userAgent)
	}

	var resp newsAPIResponse
	if err := getJSON(ctx, n.client, n.Name(), reqURL, header, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "" && resp.Status != "ok" {
		return nil, &StatusError{Provider: n.Name(), StatusCode: http.StatusOK, URL: logging.RedactURL(reqURL), Body: resp.Code + ": " + resp.Message}
	}

	articles := make([]NewsArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		// NewsAPI blanks out articles withdrawn by the publisher.
		if a.Title == "[Removed]" || a.URL == "https://removed.com" {
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// Normalize converts an article to a ContentItem. NewsAPI has no stable
// article ID, so the ID is derived from the URL and title.
func (n *NewsAPI) Normalize(a NewsArticle) models.ContentItem {
	title := plainText(a.Title)
	return models.ContentItem{
		ID:          models.ContentID(models.KindArticle, "", a.URL, title),
		Kind:        models.KindArticle,
		Title:       title,
		Description: models.TruncateDescription(plainText(a.Description)),
		URL:         a.URL,
		ImageURL:    models.ImageOr(a.URLToImage, n.cfg.Placeholder),
		SourceMeta: map[string]any{
			"source":      a.Source.Name,
			"author":      a.Author,
			"publishedAt": a.PublishedAt,
		},
	}
}
