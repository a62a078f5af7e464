// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package config

import (
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/wellspring/internal/validation"
)

// Validate checks struct-tag rules first, then the cross-field rules tags
// cannot express.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	validators := []func() error{
		c.validateLogging,
		c.validateShares,
		c.validateTimeouts,
		c.validateLimits,
		c.validateRateLimits,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// shareTolerance allows for proportions written with two decimals.
const shareTolerance = 0.02

func (c *Config) validateShares() error {
	a := c.Aggregation
	sum := a.ArticleShare + a.VideoShare + a.AudioShare
	if math.Abs(sum-1) > shareTolerance {
		return fmt.Errorf("aggregation shares must sum to 1.0, got %.2f (article=%.2f video=%.2f audio=%.2f)",
			sum, a.ArticleShare, a.VideoShare, a.AudioShare)
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	a := c.Aggregation
	if a.PerCallTimeout > a.SharedTimeout {
		return fmt.Errorf("PROVIDER_CALL_TIMEOUT (%v) must not exceed AGGREGATE_TIMEOUT (%v)", a.PerCallTimeout, a.SharedTimeout)
	}
	if a.LargeRequestTimeout < a.SharedTimeout {
		return fmt.Errorf("AGGREGATE_LARGE_TIMEOUT (%v) must be at least AGGREGATE_TIMEOUT (%v)", a.LargeRequestTimeout, a.SharedTimeout)
	}
	if c.Server.WriteTimeout <= a.LargeRequestTimeout {
		return fmt.Errorf("WRITE_TIMEOUT (%v) must exceed AGGREGATE_LARGE_TIMEOUT (%v)", c.Server.WriteTimeout, a.LargeRequestTimeout)
	}
	if c.Cache.JanitorInterval < 0 {
		return fmt.Errorf("CACHE_JANITOR_INTERVAL must not be negative")
	}
	return nil
}

func (c *Config) validateLimits() error {
	a := c.Aggregation
	defaults := map[string]int{
		"CONTENT_DEFAULT_LIMIT": a.DefaultLimit,
		"NEWS_DEFAULT_LIMIT":    a.DefaultNewsLimit,
		"VIDEOS_DEFAULT_LIMIT":  a.DefaultVideoLimit,
		"MUSIC_DEFAULT_LIMIT":   a.DefaultMusicLimit,
	}
	for name, v := range defaults {
		if v > a.MaxLimit {
			return fmt.Errorf("%s (%d) must not exceed CONTENT_MAX_LIMIT (%d)", name, v, a.MaxLimit)
		}
	}
	return nil
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	s := c.Security
	if s.RateLimitDisabled {
		return nil
	}
	if s.RateLimitReqs < minRateLimitRequests || s.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if s.RateLimitWindow < minRateLimitWindow || s.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// ShouldWarnAboutCORS reports a wildcard CORS origin in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}
