// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/tomtom215/wellspring/internal/cache"
	"github.com/tomtom215/wellspring/internal/config"
	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/models"
)

// DefaultFeedTTL is how long a parsed feed is reused across queries.
const DefaultFeedTTL = 10 * time.Minute

// RSSEntry is one feed item together with the feed it came from.
type RSSEntry struct {
	FeedTitle string
	Item      *gofeed.Item
}

// RSS serves articles from a fixed list of feeds. Feeds carry no search
// API, so Search parses every feed (reusing parses for DefaultFeedTTL) and
// keeps the items that mention a word from the query.
type RSS struct {
	cfg       config.RSSConfig
	client    *http.Client
	userAgent string
	feeds     *cache.Store
}

// NewRSS creates the feed source.
func NewRSS(cfg config.RSSConfig, client *http.Client, userAgent string) *RSS {
	return &RSS{
		cfg:       cfg,
		client:    client,
		userAgent: userAgent,
		feeds: cache.New(DefaultFeedTTL,
			cache.WithMaxEntries(max(len(cfg.Feeds), 1)),
			cache.WithObserver(cache.NewPrometheusObserver("rss_feeds")),
		),
	}
}

func (r *RSS) Kind() models.Kind { return models.KindArticle }
func (r *RSS) Name() string      { return "rss" }
func (r *RSS) Configured() bool  { return r.cfg.Configured() }

// Search returns up to limit entries, in feed order, whose title or
// description contains a significant word of query. It fails only when
// every feed fails.
func (r *RSS) Search(ctx context.Context, query string, limit int) ([]RSSEntry, error) {
	if !r.Configured() {
		return nil, ErrNotConfigured
	}

	feeds := make([]*gofeed.Feed, len(r.cfg.Feeds))
	errs := make([]error, len(r.cfg.Feeds))
	var wg sync.WaitGroup
	for i, feedURL := range r.cfg.Feeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			feeds[i], errs[i] = r.feed(ctx, feedURL)
		}()
	}
	wg.Wait()

	terms := queryTerms(query)
	var entries []RSSEntry
	failed := 0
	for i, feed := range feeds {
		if errs[i] != nil {
			failed++
			logging.Ctx(ctx).Warn().
				Err(errs[i]).
				Str("component", "providers").
				Str("feed", logging.RedactURL(r.cfg.Feeds[i])).
				Msg("Feed fetch failed")
			continue
		}
		for _, item := range feed.Items {
			if item == nil || !matchesAny(item.Title+" "+item.Description, terms) {
				continue
			}
			entries = append(entries, RSSEntry{FeedTitle: feed.Title, Item: item})
		}
	}
	if failed == len(r.cfg.Feeds) {
		return nil, fmt.Errorf("all %d feeds failed: %w", failed, errors.Join(errs...))
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []RSSEntry{}
	}
	return entries, nil
}

// feed returns a parsed feed, from the feed cache when fresh.
func (r *RSS) feed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	if v, ok := r.feeds.Get(feedURL); ok {
		if f, ok := v.(*gofeed.Feed); ok {
			return f, nil
		}
	}

	// gofeed.Parser keeps per-parse state; one per fetch.
	fp := gofeed.NewParser()
	fp.Client = r.client
	if r.userAgent != "" {
		fp.UserAgent = r.userAgent
	}

	f, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", logging.RedactURL(feedURL), err)
	}
	r.feeds.Set(feedURL, f)
	return f, nil
}

// Normalize converts a feed entry to an article ContentItem.
func (r *RSS) Normalize(e RSSEntry) models.ContentItem {
	item := e.Item
	title := plainText(item.Title)

	desc := item.Description
	if strings.TrimSpace(desc) == "" {
		desc = item.Content
	}

	var published string
	switch {
	case item.PublishedParsed != nil:
		published = item.PublishedParsed.UTC().Format(time.RFC3339)
	case item.UpdatedParsed != nil:
		published = item.UpdatedParsed.UTC().Format(time.RFC3339)
	default:
		published = item.Published
	}

	return models.ContentItem{
		ID:          models.ContentID(models.KindArticle, "", item.Link, title),
		Kind:        models.KindArticle,
		Title:       title,
		Description: models.TruncateDescription(plainText(desc)),
		URL:         item.Link,
		ImageURL:    models.ImageOr(entryImage(item), r.cfg.Placeholder),
		SourceMeta: map[string]any{
			"source":      e.FeedTitle,
			"publishedAt": published,
		},
	}
}

func entryImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

// queryTerms returns the lower-cased words of query long enough to be
// meaningful on their own ("for", "and", "the" are skipped).
func queryTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.Trim(w, `"'.,:;!?()`)
		if len([]rune(w)) >= 4 {
			terms = append(terms, w)
		}
	}
	return terms
}

func matchesAny(text string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	text = strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
