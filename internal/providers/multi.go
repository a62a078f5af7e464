// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package providers

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/models"
)

// multi fans one query out to several adapters of the same kind.
type multi struct {
	kind     models.Kind
	adapters []Adapter
}

// Combine merges adapters serving kind into one Adapter. Fetch queries every
// configured member concurrently and concatenates their items in member
// order. It fails only when every configured member fails.
func Combine(kind models.Kind, adapters ...Adapter) Adapter {
	return &multi{kind: kind, adapters: adapters}
}

func (m *multi) Kind() models.Kind { return m.kind }

func (m *multi) Name() string {
	names := make([]string, len(m.adapters))
	for i, a := range m.adapters {
		names[i] = a.Name()
	}
	return strings.Join(names, "+")
}

func (m *multi) Configured() bool {
	for _, a := range m.adapters {
		if a.Configured() {
			return true
		}
	}
	return false
}

func (m *multi) Fetch(ctx context.Context, query string, limit int) ([]models.ContentItem, error) {
	results := make([][]models.ContentItem, len(m.adapters))
	errs := make([]error, len(m.adapters))

	var g errgroup.Group
	attempted := 0
	for i, a := range m.adapters {
		if !a.Configured() {
			continue
		}
		attempted++
		g.Go(func() error {
			items, err := a.Fetch(ctx, query, limit)
			if err != nil {
				errs[i] = err
				logging.Ctx(ctx).Debug().
					Err(err).
					Str("component", "providers").
					Str("provider", a.Name()).
					Str("query", query).
					Msg("Member provider failed")
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	if attempted == 0 {
		return nil, ErrNotConfigured
	}

	var items []models.ContentItem
	failed := 0
	for i := range m.adapters {
		if errs[i] != nil {
			failed++
			continue
		}
		items = append(items, results[i]...)
	}
	if failed == attempted {
		return nil, errors.Join(errs...)
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	return items, nil
}
