// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/wellspring/config.yaml",
	"/etc/wellspring/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPathEnvVar overrides the .env file path.
const DotEnvPathEnvVar = "DOTENV_PATH"

// Defaults returns the built-in configuration without reading any source.
func Defaults() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    45 * time.Second, // must outlive the largest shared deadline
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Cache: CacheConfig{
			TTL:             7 * time.Minute,
			MaxEntries:      100,
			JanitorInterval: time.Minute,
		},
		Aggregation: AggregationConfig{
			ArticleShare:          0.42,
			VideoShare:            0.33,
			AudioShare:            0.25,
			SharedTimeout:         15 * time.Second,
			LargeRequestTimeout:   25 * time.Second,
			LargeRequestThreshold: 30,
			PerCallTimeout:        8 * time.Second,
			MinScore:              50,
			MaxQueryFanout:        6,
			DefaultLimit:          50,
			DefaultNewsLimit:      25,
			DefaultVideoLimit:     25,
			DefaultMusicLimit:     20,
			MaxLimit:              100,
		},
		Scoring: ScoringConfig{
			Provider:        "claude",
			Model:           "",
			Timeout:         8 * time.Second,
			Concurrency:     4,
			BreakerFailures: 5,
			BreakerCooldown: time.Minute,
		},
		Providers: ProvidersConfig{
			News: NewsConfig{
				BaseURL:     "https://newsapi.org",
				Language:    "en",
				RateLimit:   1,
				Burst:       5,
				Placeholder: "/static/placeholders/article.svg",
			},
			RSS: RSSConfig{
				Feeds:       []string{},
				Placeholder: "/static/placeholders/article.svg",
			},
			YouTube: YouTubeConfig{
				BaseURL:     "https://www.googleapis.com",
				RateLimit:   2,
				Burst:       6,
				Placeholder: "/static/placeholders/video.svg",
			},
			Spotify: SpotifyConfig{
				BaseURL:     "https://api.spotify.com",
				TokenURL:    "https://accounts.spotify.com/api/token",
				Market:      "US",
				RateLimit:   2,
				Burst:       6,
				Placeholder: "/static/placeholders/audio.svg",
			},
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
			UserAgent:       "Wellspring/1.0 (+https://github.com/tomtom215/wellspring)",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
	}
}

// LoadWithKoanf loads configuration with precedence ENV > file > defaults.
// A .env file, when present, is merged into the process environment first
// without overriding variables that are already set.
func LoadWithKoanf() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"providers.rss.feeds",
	"scoring.keywords.primary",
	"scoring.keywords.secondary",
	"scoring.keywords.therapeutic",
	"scoring.keywords.irrelevant",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	"http_port":        "server.port",
	"http_host":        "server.host",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"cache_ttl":              "cache.ttl",
	"cache_max_entries":      "cache.max_entries",
	"cache_janitor_interval": "cache.janitor_interval",

	"article_share":             "aggregation.article_share",
	"video_share":               "aggregation.video_share",
	"audio_share":               "aggregation.audio_share",
	"aggregate_timeout":         "aggregation.shared_timeout",
	"aggregate_large_timeout":   "aggregation.large_request_timeout",
	"aggregate_large_threshold": "aggregation.large_request_threshold",
	"provider_call_timeout":     "aggregation.per_call_timeout",
	"min_relevance_score":       "aggregation.min_score",
	"max_query_fanout":          "aggregation.max_query_fanout",
	"content_default_limit":     "aggregation.default_limit",
	"news_default_limit":        "aggregation.default_news_limit",
	"videos_default_limit":      "aggregation.default_video_limit",
	"music_default_limit":       "aggregation.default_music_limit",
	"content_max_limit":         "aggregation.max_limit",

	"scoring_provider":         "scoring.provider",
	"scoring_model":            "scoring.model",
	"scoring_api_key":          "scoring.api_key",
	"scoring_base_url":         "scoring.base_url",
	"scoring_timeout":          "scoring.timeout",
	"scoring_concurrency":      "scoring.concurrency",
	"scoring_breaker_failures": "scoring.breaker_failures",
	"scoring_breaker_cooldown": "scoring.breaker_cooldown",

	"keywords_primary":            "scoring.keywords.primary",
	"keywords_secondary":          "scoring.keywords.secondary",
	"keywords_therapeutic":        "scoring.keywords.therapeutic",
	"keywords_irrelevant":         "scoring.keywords.irrelevant",
	"keywords_primary_weight":     "scoring.keywords.primary_weight",
	"keywords_secondary_weight":   "scoring.keywords.secondary_weight",
	"keywords_therapeutic_weight": "scoring.keywords.therapeutic_weight",
	"keywords_penalty":            "scoring.keywords.penalty",

	"news_api_key":       "providers.news.api_key",
	"news_api_base_url":  "providers.news.base_url",
	"news_language":      "providers.news.language",
	"news_rate_limit":    "providers.news.rate_limit",
	"rss_feeds":          "providers.rss.feeds",
	"youtube_api_key":    "providers.youtube.api_key",
	"youtube_base_url":   "providers.youtube.base_url",
	"youtube_rate_limit": "providers.youtube.rate_limit",

	"spotify_client_id":     "providers.spotify.client_id",
	"spotify_client_secret": "providers.spotify.client_secret",
	"spotify_base_url":      "providers.spotify.base_url",
	"spotify_token_url":     "providers.spotify.token_url",
	"spotify_market":        "providers.spotify.market",
	"spotify_rate_limit":    "providers.spotify.rate_limit",

	"provider_breaker_failures": "providers.breaker_failures",
	"provider_breaker_cooldown": "providers.breaker_cooldown",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"admin_token":         "security.admin_token",
}

// envTransformFunc maps an environment variable name to its config path,
// returning "" for variables Wellspring does not read.
//
//   - NEWS_API_KEY -> providers.news.api_key
//   - CACHE_TTL -> cache.ttl
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
