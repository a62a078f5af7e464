// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind is the content category axis the pipeline fans out over.
type Kind string

const (
	KindArticle Kind = "article"
	KindVideo   Kind = "video"
	KindAudio   Kind = "audio"
)

// Kinds lists every kind in result order.
var Kinds = []Kind{KindArticle, KindVideo, KindAudio}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindArticle, KindVideo, KindAudio:
		return true
	}
	return false
}

// MaxDescriptionRunes bounds ContentItem.Description.
const MaxDescriptionRunes = 300

// ContentItem is the unit the pipeline produces and caches.
type ContentItem struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl"`

	// SourceMeta carries kind-specific attributes (publishedAt, source,
	// channel, embedUrl, owner, trackCount). The pipeline never reads it.
	SourceMeta map[string]any `json:"sourceMeta,omitempty"`

	// RelevanceScore is nil until scored; 0 means "scored, irrelevant".
	RelevanceScore *int `json:"relevanceScore,omitempty"`
}

// Scored reports whether the item has been through the relevance scorer.
func (c *ContentItem) Scored() bool {
	return c.RelevanceScore != nil
}

// Score returns the relevance score, or -1 when unscored.
func (c *ContentItem) Score() int {
	if c.RelevanceScore == nil {
		return -1
	}
	return *c.RelevanceScore
}

// WithScore returns a copy of c carrying score.
func (c ContentItem) WithScore(score int) ContentItem {
	s := score
	c.RelevanceScore = &s
	return c
}

// AggregationResult is the combined, typed result of one aggregation.
// Lists are never nil so they encode as [] rather than null.
type AggregationResult struct {
	Articles   []ContentItem `json:"articles"`
	Videos     []ContentItem `json:"videos"`
	Audio      []ContentItem `json:"audio"`
	TotalItems int           `json:"totalItems"`
}

// NewAggregationResult builds a result from per-kind lists, replacing nil
// lists with empty ones and computing TotalItems.
func NewAggregationResult(articles, videos, audio []ContentItem) AggregationResult {
	r := AggregationResult{
		Articles: nonNil(articles),
		Videos:   nonNil(videos),
		Audio:    nonNil(audio),
	}
	r.TotalItems = len(r.Articles) + len(r.Videos) + len(r.Audio)
	return r
}

// EmptyAggregationResult is the well-formed result returned when nothing
// could be fetched.
func EmptyAggregationResult() AggregationResult {
	return NewAggregationResult(nil, nil, nil)
}

// ForKind returns the list for kind.
func (r *AggregationResult) ForKind(kind Kind) []ContentItem {
	switch kind {
	case KindArticle:
		return r.Articles
	case KindVideo:
		return r.Videos
	case KindAudio:
		return r.Audio
	}
	return nil
}

func nonNil(items []ContentItem) []ContentItem {
	if items == nil {
		return []ContentItem{}
	}
	return items
}

// ContentID derives a stable identity for an item. A provider's own ID is
// preferred; otherwise the first 16 hex characters of sha256(kind|url|title).
func ContentID(kind Kind, providerID, url, title string) string {
	if providerID != "" {
		return fmt.Sprintf("%s:%s", kind, providerID)
	}
	sum := sha256.Sum256([]byte(string(kind) + "|" + url + "|" + title))
	return hex.EncodeToString(sum[:])[:16]
}

// TruncateDescription trims whitespace and bounds s to MaxDescriptionRunes,
// appending "..." when it was cut.
func TruncateDescription(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxDescriptionRunes {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:MaxDescriptionRunes])) + "..."
}

// ImageOr returns image, or placeholder when image is empty.
func ImageOr(image, placeholder string) string {
	if strings.TrimSpace(image) == "" {
		return placeholder
	}
	return image
}
