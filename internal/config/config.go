// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

// Package config loads Wellspring's configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. .env file (if present) is loaded into the process environment
//  2. Defaults: built-in values for every setting
//  3. Config file: optional YAML (config.yaml, or the path in CONFIG_PATH)
//  4. Environment variables: explicit names mapped onto config paths
//
// Every value the aggregation core depends on is injectable here: provider
// credentials, scoring model and key, cache TTL and capacity, per-kind
// proportions, the shared and per-call timeouts, and the fallback keyword
// tables with their weights.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
	Cache       CacheConfig       `koanf:"cache"`
	Aggregation AggregationConfig `koanf:"aggregation"`
	Scoring     ScoringConfig     `koanf:"scoring"`
	Providers   ProvidersConfig   `koanf:"providers"`
	Security    SecurityConfig    `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"positivedur"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"positivedur"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"positivedur"`
	Environment     string        `koanf:"environment" validate:"oneof=development staging production"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CacheConfig holds the aggregation cache settings.
type CacheConfig struct {
	TTL             time.Duration `koanf:"ttl" validate:"positivedur"`
	MaxEntries      int           `koanf:"max_entries" validate:"gte=1"`
	JanitorInterval time.Duration `koanf:"janitor_interval"`
}

// AggregationConfig holds the orchestrator's split, deadline and limit settings.
type AggregationConfig struct {
	// Per-kind proportions of a combined request; each sub-limit is rounded up.
	ArticleShare float64 `koanf:"article_share" validate:"gt=0,lte=1"`
	VideoShare   float64 `koanf:"video_share" validate:"gt=0,lte=1"`
	AudioShare   float64 `koanf:"audio_share" validate:"gt=0,lte=1"`

	// SharedTimeout bounds the whole fan-out; LargeRequestTimeout replaces it
	// when the requested total exceeds LargeRequestThreshold.
	SharedTimeout         time.Duration `koanf:"shared_timeout" validate:"positivedur"`
	LargeRequestTimeout   time.Duration `koanf:"large_request_timeout" validate:"positivedur"`
	LargeRequestThreshold int           `koanf:"large_request_threshold" validate:"gte=0"`
	PerCallTimeout        time.Duration `koanf:"per_call_timeout" validate:"positivedur"`

	MinScore       int `koanf:"min_score" validate:"gte=0,lte=100"`
	MaxQueryFanout int `koanf:"max_query_fanout" validate:"gte=1,lte=16"`

	DefaultLimit      int `koanf:"default_limit" validate:"gte=1"`
	DefaultNewsLimit  int `koanf:"default_news_limit" validate:"gte=1"`
	DefaultVideoLimit int `koanf:"default_video_limit" validate:"gte=1"`
	DefaultMusicLimit int `koanf:"default_music_limit" validate:"gte=1"`
	MaxLimit          int `koanf:"max_limit" validate:"gte=1"`
}

// ScoringConfig selects and tunes the relevance scorer.
type ScoringConfig struct {
	// Provider is the language-model backend: claude, openai, gemini or none.
	// "none" (or a missing API key) leaves only the keyword scorer.
	Provider    string        `koanf:"provider" validate:"oneof=claude openai gemini none"`
	Model       string        `koanf:"model"`
	APIKey      string        `koanf:"api_key"`
	BaseURL     string        `koanf:"base_url" validate:"omitempty,http_url"`
	Timeout     time.Duration `koanf:"timeout" validate:"positivedur"`
	Concurrency int           `koanf:"concurrency" validate:"gte=1,lte=32"`

	BreakerFailures uint32        `koanf:"breaker_failures" validate:"gte=1"`
	BreakerCooldown time.Duration `koanf:"breaker_cooldown" validate:"positivedur"`

	Keywords KeywordsConfig `koanf:"keywords"`
}

// KeywordsConfig overrides the fallback scorer's tables. Empty lists and zero
// weights keep the built-in defaults.
type KeywordsConfig struct {
	Primary     []string `koanf:"primary"`
	Secondary   []string `koanf:"secondary"`
	Therapeutic []string `koanf:"therapeutic"`
	Irrelevant  []string `koanf:"irrelevant"`

	PrimaryWeight     int `koanf:"primary_weight" validate:"gte=0"`
	SecondaryWeight   int `koanf:"secondary_weight" validate:"gte=0"`
	TherapeuticWeight int `koanf:"therapeutic_weight" validate:"gte=0"`
	Penalty           int `koanf:"penalty" validate:"gte=0"`
}

// ProvidersConfig holds per-provider credentials and client settings.
type ProvidersConfig struct {
	News    NewsConfig    `koanf:"news"`
	RSS     RSSConfig     `koanf:"rss"`
	YouTube YouTubeConfig `koanf:"youtube"`
	Spotify SpotifyConfig `koanf:"spotify"`

	// Circuit breaker applied to every provider client.
	BreakerFailures uint32        `koanf:"breaker_failures" validate:"gte=1"`
	BreakerCooldown time.Duration `koanf:"breaker_cooldown" validate:"positivedur"`
	UserAgent       string        `koanf:"user_agent"`
}

// NewsConfig configures the NewsAPI article provider.
type NewsConfig struct {
	APIKey      string  `koanf:"api_key"`
	BaseURL     string  `koanf:"base_url" validate:"required,http_url"`
	Language    string  `koanf:"language"`
	RateLimit   float64 `koanf:"rate_limit" validate:"gt=0"`
	Burst       int     `koanf:"burst" validate:"gte=1"`
	Placeholder string  `koanf:"placeholder_image"`
}

// RSSConfig configures the feed-based article provider.
type RSSConfig struct {
	Feeds       []string `koanf:"feeds" validate:"dive,http_url"`
	Placeholder string   `koanf:"placeholder_image"`
}

// YouTubeConfig configures the video provider.
type YouTubeConfig struct {
	APIKey      string  `koanf:"api_key"`
	BaseURL     string  `koanf:"base_url" validate:"required,http_url"`
	RateLimit   float64 `koanf:"rate_limit" validate:"gt=0"`
	Burst       int     `koanf:"burst" validate:"gte=1"`
	Placeholder string  `koanf:"placeholder_image"`
}

// SpotifyConfig configures the audio playlist provider.
type SpotifyConfig struct {
	ClientID     string  `koanf:"client_id"`
	ClientSecret string  `koanf:"client_secret"`
	BaseURL      string  `koanf:"base_url" validate:"required,http_url"`
	TokenURL     string  `koanf:"token_url" validate:"required,http_url"`
	Market       string  `koanf:"market"`
	RateLimit    float64 `koanf:"rate_limit" validate:"gt=0"`
	Burst        int     `koanf:"burst" validate:"gte=1"`
	Placeholder  string  `koanf:"placeholder_image"`
}

// SecurityConfig holds HTTP-facing protections.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	// AdminToken guards /admin routes when set (X-Admin-Token header).
	AdminToken string `koanf:"admin_token"`
}

// Load reads configuration from .env, defaults, config file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Configured reports whether the NewsAPI client has credentials.
func (n NewsConfig) Configured() bool { return n.APIKey != "" }

// Configured reports whether at least one feed is listed.
func (r RSSConfig) Configured() bool { return len(r.Feeds) > 0 }

// Configured reports whether the YouTube client has credentials.
func (y YouTubeConfig) Configured() bool { return y.APIKey != "" }

// Configured reports whether the Spotify client-credentials pair is present.
func (s SpotifyConfig) Configured() bool { return s.ClientID != "" && s.ClientSecret != "" }

// AIEnabled reports whether a language-model scorer should be constructed.
func (s ScoringConfig) AIEnabled() bool {
	return s.Provider != "none" && s.APIKey != ""
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
