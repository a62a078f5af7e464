// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/wellspring/internal/config"
)

func TestNewApplication_NoCredentials(t *testing.T) {
	cfg := config.Defaults()
	cfg.Server.Port = 9099

	app, err := newApplication(cfg)
	if err != nil {
		t.Fatalf("newApplication: %v", err)
	}
	if app.server.Addr != "0.0.0.0:9099" {
		t.Errorf("Addr = %q", app.server.Addr)
	}
	if app.store.TTL() != cfg.Cache.TTL {
		t.Errorf("cache TTL = %v, want %v", app.store.TTL(), cfg.Cache.TTL)
	}

	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/content?limit=30", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{`"success":true`, `"articles":[]`, `"videos":[]`, `"audio":[]`, `"totalItems":0`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %s: %s", want, body)
		}
	}

	rec = httptest.NewRecorder()
	app.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if !strings.Contains(rec.Body.String(), `"scoring":"keyword"`) {
		t.Errorf("ready body = %s", rec.Body.String())
	}
}
