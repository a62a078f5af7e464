// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

// Package breaker builds the gobreaker circuit breakers that guard every
// outbound dependency (content providers and the scoring model), with state
// exported to Prometheus and transitions logged.
//
// The breakers use real time (via sony/gobreaker) for the cool-down. Tests
// that need an open breaker trip it with failures and use a short cooldown.
package breaker

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/metrics"
)

// Settings tunes one breaker.
type Settings struct {
	// Name labels metrics and log lines, e.g. "provider-youtube".
	Name string

	// Failures is the number of consecutive failures that opens the circuit.
	Failures uint32

	// Cooldown is how long the circuit stays open before a half-open probe.
	Cooldown time.Duration

	// HalfOpenRequests is how many probes are let through while half-open.
	HalfOpenRequests uint32
}

// DefaultSettings returns settings for name: 5 consecutive failures, 1 minute
// cooldown, 1 probe.
func DefaultSettings(name string) Settings {
	return Settings{
		Name:             name,
		Failures:         5,
		Cooldown:         time.Minute,
		HalfOpenRequests: 1,
	}
}

// ErrCallTimeout is the cause attached by WithCallTimeout. A call whose
// context ended with this cause timed out on its own budget and counts as a
// failure.
var ErrCallTimeout = errors.New("per-call timeout exceeded")

// WithCallTimeout bounds one guarded call to d.
func WithCallTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeoutCause(ctx, d, ErrCallTimeout)
}

// abandonedError marks a call cut short because its caller's context ended.
type abandonedError struct{ err error }

func (e *abandonedError) Error() string { return e.err.Error() }
func (e *abandonedError) Unwrap() error { return e.err }

// Classify returns err marked as abandoned when ctx ended for any reason
// other than its WithCallTimeout budget. Guarded functions return
// Classify(ctx, err) from inside Execute.
func Classify(ctx context.Context, err error) error {
	if err == nil || ctx.Err() == nil {
		return err
	}
	if errors.Is(context.Cause(ctx), ErrCallTimeout) {
		return err
	}
	return &abandonedError{err: err}
}

// IsAbandoned reports whether err was marked by Classify.
func IsAbandoned(err error) bool {
	var a *abandonedError
	return errors.As(err, &a)
}

// New creates a circuit breaker for results of type T.
//
// Cancellation and abandoned calls are neither successes nor failures.
// Per-call deadline expiry counts as a failure.
func New[T any](s Settings) *gobreaker.CircuitBreaker[T] {
	if s.Failures == 0 {
		s.Failures = 5
	}
	if s.Cooldown <= 0 {
		s.Cooldown = time.Minute
	}
	if s.HalfOpenRequests == 0 {
		s.HalfOpenRequests = 1
	}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)
	log := logging.WithComponent("breaker").With().Str("breaker", s.Name).Logger()

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.HalfOpenRequests,
		Timeout:     s.Cooldown,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= s.Failures
			if trip {
				log.Warn().
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Dur("cooldown", s.Cooldown).
					Msg("Opening circuit")
			}
			return trip
		},

		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled) || IsAbandoned(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := StateString(from)
			toStr := StateString(to)
			log.Info().Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})
}

// IsOpen reports whether err is a breaker rejection rather than a call failure.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// stateToFloat converts a state to the gauge value (0=closed, 1=half-open, 2=open).
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// StateString converts a state to its log/metric label.
func StateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
