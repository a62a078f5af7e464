// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package providers

import (
	"net/http"
	"time"

	"github.com/tomtom215/wellspring/internal/breaker"
	"github.com/tomtom215/wellspring/internal/config"
	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/models"
)

// Set is one adapter per content kind.
type Set struct {
	Articles Adapter
	Videos   Adapter
	Audio    Adapter
}

// ForKind returns the adapter serving kind, or nil.
func (s Set) ForKind(kind models.Kind) Adapter {
	switch kind {
	case models.KindArticle:
		return s.Articles
	case models.KindVideo:
		return s.Videos
	case models.KindAudio:
		return s.Audio
	default:
		return nil
	}
}

// NewSet builds the production adapters from cfg. callTimeout bounds every
// outbound HTTP request, including Spotify token fetches.
func NewSet(cfg *config.ProvidersConfig, callTimeout time.Duration) Set {
	client := &http.Client{Timeout: callTimeout}
	ua := cfg.UserAgent

	guard := func(name string, rps float64, burst int) Guard {
		return Guard{
			Breaker: breaker.Settings{
				Name:     "provider-" + name,
				Failures: cfg.BreakerFailures,
				Cooldown: cfg.BreakerCooldown,
			},
			RateLimit: rps,
			Burst:     burst,
		}
	}

	news := Adapt[NewsArticle](NewNewsAPI(cfg.News, client, ua), guard("newsapi", cfg.News.RateLimit, cfg.News.Burst))
	// Feeds are spread over many hosts; only the breaker applies.
	feeds := Adapt[RSSEntry](NewRSS(cfg.RSS, client, ua), guard("rss", 0, 0))
	videos := Adapt[YouTubeVideo](NewYouTube(cfg.YouTube, client, ua), guard("youtube", cfg.YouTube.RateLimit, cfg.YouTube.Burst))
	audio := Adapt[SpotifyPlaylist](NewSpotify(cfg.Spotify, client, ua), guard("spotify", cfg.Spotify.RateLimit, cfg.Spotify.Burst))

	set := Set{
		Articles: Combine(models.KindArticle, news, feeds),
		Videos:   videos,
		Audio:    audio,
	}

	for _, a := range []Adapter{news, feeds, videos, audio} {
		logging.Info().
			Str("component", "providers").
			Str("provider", a.Name()).
			Str("kind", string(a.Kind())).
			Bool("configured", a.Configured()).
			Msg("Content provider registered")
	}
	return set
}
