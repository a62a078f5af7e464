// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package services

import (
	"context"
	"time"

	"github.com/tomtom215/wellspring/internal/logging"
)

// DefaultJanitorInterval is how often expired cache entries are swept.
const DefaultJanitorInterval = time.Minute

// Sweeper removes expired entries and reports how many it dropped.
// Satisfied by *cache.Store.
type Sweeper interface {
	Sweep() int
}

// CacheJanitorService periodically sweeps a cache so expired entries that
// are never read again do not stay resident until the next capacity check.
type CacheJanitorService struct {
	cache    Sweeper
	interval time.Duration
	name     string
}

// NewCacheJanitorService creates a janitor for cache.
func NewCacheJanitorService(cache Sweeper, interval time.Duration) *CacheJanitorService {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	return &CacheJanitorService{
		cache:    cache,
		interval: interval,
		name:     "cache-janitor",
	}
}

// Serve implements suture.Service.
func (j *CacheJanitorService) Serve(ctx context.Context) error {
	log := logging.WithComponent(j.name)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := j.cache.Sweep(); n > 0 {
				log.Debug().Int("evicted", n).Msg("Swept expired cache entries")
			}
		}
	}
}

func (j *CacheJanitorService) String() string {
	return j.name
}
