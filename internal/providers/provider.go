// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/wellspring/internal/breaker"
	"github.com/tomtom215/wellspring/internal/metrics"
	"github.com/tomtom215/wellspring/internal/models"
)

// ErrNotConfigured is returned by a source or adapter that lacks credentials.
var ErrNotConfigured = errors.New("provider not configured")

// Adapter is what an aggregation pipeline calls: one search returning
// normalized items of a single kind.
type Adapter interface {
	Kind() models.Kind
	Name() string
	Configured() bool
	Fetch(ctx context.Context, query string, limit int) ([]models.ContentItem, error)
}

// Source is one upstream API returning raw records of type R.
type Source[R any] interface {
	Kind() models.Kind
	Name() string
	Configured() bool
	Search(ctx context.Context, query string, limit int) ([]R, error)
	Normalize(raw R) models.ContentItem
}

// Guard configures the protections Adapt adds around a source.
type Guard struct {
	Breaker breaker.Settings

	// RateLimit is the sustained requests per second; 0 disables limiting.
	RateLimit float64
	Burst     int
}

type guarded[R any] struct {
	src     Source[R]
	cb      *gobreaker.CircuitBreaker[[]R]
	limiter *rate.Limiter
}

// Adapt wraps src with a rate limiter, a circuit breaker and call metrics,
// and normalizes its raw records. Normalized items missing a title or URL
// are dropped.
func Adapt[R any](src Source[R], g Guard) Adapter {
	settings := g.Breaker
	if settings.Name == "" {
		settings.Name = "provider-" + src.Name()
	}

	a := &guarded[R]{
		src: src,
		cb:  breaker.New[[]R](settings),
	}
	if g.RateLimit > 0 {
		burst := g.Burst
		if burst < 1 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(g.RateLimit), burst)
	}
	return a
}

func (a *guarded[R]) Kind() models.Kind { return a.src.Kind() }
func (a *guarded[R]) Name() string      { return a.src.Name() }
func (a *guarded[R]) Configured() bool  { return a.src.Configured() }

func (a *guarded[R]) Fetch(ctx context.Context, query string, limit int) ([]models.ContentItem, error) {
	if !a.src.Configured() {
		return nil, ErrNotConfigured
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			metrics.RecordProviderCall(a.src.Name(), 0, err)
			return nil, fmt.Errorf("%s: rate limit wait: %w", a.src.Name(), err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: search %q: %w", a.src.Name(), query, err)
	}

	start := time.Now()
	raws, err := a.cb.Execute(func() ([]R, error) {
		raws, err := a.src.Search(ctx, query, limit)
		return raws, breaker.Classify(ctx, err)
	})
	metrics.RecordProviderCall(a.src.Name(), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%s: search %q: %w", a.src.Name(), query, err)
	}

	items := make([]models.ContentItem, 0, len(raws))
	for _, raw := range raws {
		item := a.src.Normalize(raw)
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.URL) == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
