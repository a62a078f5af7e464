// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/wellspring/internal/models"
	"github.com/tomtom215/wellspring/internal/providers"
)

// Health status values.
const (
	StatusHealthy  = "healthy"
	StatusReady    = "ready"
	StatusDegraded = "degraded"
)

// HealthLive handles GET /health/live. It only proves the process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, models.HealthStatus{
		Status:  StatusHealthy,
		Version: h.version,
		Uptime:  h.uptime(),
	}, "Service is alive")
}

// HealthReady handles GET /health/ready.
//
// A service with no configured provider still answers content requests with
// empty lists, so readiness reports "degraded" rather than failing the probe.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	configured := providerStatus(h.adapters)

	status := StatusDegraded
	for _, ok := range configured {
		if ok {
			status = StatusReady
			break
		}
	}

	details := map[string]string{}
	if h.cache != nil {
		details["cache_ttl"] = h.cache.TTL().String()
	}

	WriteSuccess(w, r, models.HealthStatus{
		Status:    status,
		Version:   h.version,
		Uptime:    h.uptime(),
		Providers: configured,
		Scoring:   h.scoring,
		Details:   details,
	}, "Readiness check complete")
}

func (h *Handler) uptime() string {
	return time.Since(h.startTime).Round(time.Second).String()
}

// providerStatus maps each kind to whether its adapter can be called.
func providerStatus(set providers.Set) map[string]bool {
	out := make(map[string]bool, len(models.Kinds))
	for _, kind := range models.Kinds {
		a := set.ForKind(kind)
		out[string(kind)] = a != nil && a.Configured()
	}
	return out
}
