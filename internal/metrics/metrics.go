// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

// Package metrics holds Wellspring's Prometheus instrumentation:
//   - aggregation runs, per-kind yield and failures
//   - provider call latency and errors
//   - relevance scoring paths (ai, fallback)
//   - cache efficiency
//   - circuit breaker state
//   - API latency and throughput
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

var (
	// Aggregation Metrics
	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wellspring_aggregation_duration_seconds",
			Help:    "Duration of uncached aggregation runs in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 20, 25, 30},
		},
	)

	AggregationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellspring_aggregation_requests_total",
			Help: "Total aggregation requests by outcome",
		},
		[]string{"outcome"}, // "cache_hit", "complete", "partial", "empty"
	)

	AggregationItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wellspring_aggregation_items",
			Help:    "Items returned per kind per aggregation run",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
		[]string{"kind"},
	)

	PipelineFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellspring_pipeline_failures_total",
			Help: "Per-kind pipeline failures",
		},
		[]string{"kind", "reason"}, // reason: "error", "timeout"
	)

	// Provider Metrics
	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wellspring_provider_call_duration_seconds",
			Help:    "Duration of provider search calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		},
		[]string{"provider"},
	)

	ProviderCallErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellspring_provider_call_errors_total",
			Help: "Total provider call errors",
		},
		[]string{"provider", "error_type"}, // error_type: "timeout", "canceled", "circuit_open", "other"
	)

	// Scoring Metrics
	ScoringPath = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellspring_scoring_total",
			Help: "Relevance scores by the path that produced them",
		},
		[]string{"path"}, // "ai", "fallback"
	)

	ScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wellspring_scoring_ai_duration_seconds",
			Help:    "Duration of language-model scoring calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8},
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellspring_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellspring_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wellspring_cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellspring_cache_evictions_total",
			Help: "Total cache entries removed",
		},
		[]string{"cache_type", "reason"}, // reason: "expired", "sweep", "delete", "clear"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wellspring_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellspring_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellspring_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wellspring_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wellspring_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wellspring_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordProviderCall records one provider search call.
func RecordProviderCall(provider string, duration time.Duration, err error) {
	ProviderCallDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if err != nil {
		ProviderCallErrors.WithLabelValues(provider, classifyError(err)).Inc()
	}
}

// RecordPipelineFailure records a per-kind pipeline that contributed nothing.
func RecordPipelineFailure(kind string, err error) {
	reason := "error"
	if errors.Is(err, context.DeadlineExceeded) {
		reason = "timeout"
	}
	PipelineFailures.WithLabelValues(kind, reason).Inc()
}

func classifyError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	default:
		return "other"
	}
}
