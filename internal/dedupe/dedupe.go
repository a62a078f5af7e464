// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

// Package dedupe removes repeated items from merged provider results.
package dedupe

import (
	"strings"

	"github.com/tomtom215/wellspring/internal/models"
)

// Dedupe keeps the first item for each key and drops later ones, preserving
// the order of survivors. Items whose key is empty are always kept: an
// unknown identity is never treated as a duplicate.
func Dedupe[T any](items []T, keyFn func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		key := keyFn(item)
		if key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, item)
	}
	return out
}

// ByID keys an item by its stable content ID.
func ByID(item models.ContentItem) string {
	return item.ID
}

// ByTitleURL keys an item by normalized title and URL, for sources whose
// items share content under different provider IDs.
func ByTitleURL(item models.ContentItem) string {
	title := strings.ToLower(strings.Join(strings.Fields(item.Title), " "))
	url := strings.TrimRight(strings.TrimSpace(item.URL), "/")
	if title == "" && url == "" {
		return ""
	}
	return title + "|" + url
}

// Items removes duplicate content by ID, then by title and URL.
func Items(items []models.ContentItem) []models.ContentItem {
	return Dedupe(Dedupe(items, ByID), ByTitleURL)
}
