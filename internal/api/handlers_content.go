// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package api

import (
	"fmt"
	"net/http"

	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/models"
)

const contentFailureMessage = "Failed to fetch content"

// Content handles GET /content.
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, h.limits.Content, h.limits.Max)

	h.guard(w, r, func() (interface{}, string) {
		result := h.content.Aggregate(r.Context(), limit)
		return result, fmt.Sprintf("Fetched %d items", result.TotalItems)
	})
}

// News handles GET /content/news.
func (h *Handler) News(w http.ResponseWriter, r *http.Request) {
	h.kind(w, r, models.KindArticle, h.limits.News)
}

// Videos handles GET /content/videos.
func (h *Handler) Videos(w http.ResponseWriter, r *http.Request) {
	h.kind(w, r, models.KindVideo, h.limits.Videos)
}

// Music handles GET /content/music.
func (h *Handler) Music(w http.ResponseWriter, r *http.Request) {
	h.kind(w, r, models.KindAudio, h.limits.Music)
}

func (h *Handler) kind(w http.ResponseWriter, r *http.Request, kind models.Kind, def int) {
	limit := parseLimit(r, def, h.limits.Max)

	h.guard(w, r, func() (interface{}, string) {
		items := h.content.FetchKind(r.Context(), kind, limit)
		if items == nil {
			items = []models.ContentItem{}
		}
		return items, fmt.Sprintf("Fetched %d items", len(items))
	})
}

// guard runs build and writes its result. The aggregator already turns
// provider failures into empty lists, so the only way to reach the error
// envelope is a panic while building the response.
func (h *Handler) guard(w http.ResponseWriter, r *http.Request, build func() (interface{}, string)) {
	rw := NewResponseWriter(w, r)

	data, message, err := func() (data interface{}, message string, err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%v", p)
			}
		}()
		data, message = build()
		return data, message, nil
	}()

	if err != nil {
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("Content handler panicked")
		rw.Error(http.StatusInternalServerError, contentFailureMessage, err)
		return
	}
	rw.Success(data, message)
}
