// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/tomtom215/wellspring/internal/aggregate"
	"github.com/tomtom215/wellspring/internal/api"
	"github.com/tomtom215/wellspring/internal/cache"
	"github.com/tomtom215/wellspring/internal/config"
	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/metrics"
	"github.com/tomtom215/wellspring/internal/providers"
	"github.com/tomtom215/wellspring/internal/relevance"
	"github.com/tomtom215/wellspring/internal/supervisor"
	"github.com/tomtom215/wellspring/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// application holds the wired components the supervisor runs.
type application struct {
	cfg        *config.Config
	store      *cache.Store
	aggregator *aggregate.Aggregator
	handler    http.Handler
	server     *http.Server
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Wellspring")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS")
	}
	if cfg.Security.AdminToken != "" {
		logging.Info().
			Str("admin_token", logging.RedactSecret(cfg.Security.AdminToken)).
			Msg("Admin endpoints require X-Admin-Token")
	}

	app, err := newApplication(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize application")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddMaintenanceService(services.NewCacheJanitorService(app.store, cfg.Cache.JanitorInterval))
	tree.AddAPIService(services.NewHTTPServerService(app.server, cfg.Server.ShutdownTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Wellspring stopped")
}

// newApplication wires scoring, providers, cache, aggregator and router
// from cfg. It performs no network I/O.
func newApplication(cfg *config.Config) (*application, error) {
	scorer, err := relevance.NewFromConfig(&cfg.Scoring)
	if err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}
	scoring := "keyword"
	if scorer.Primary != nil {
		scoring = "ai"
	}

	set := providers.NewSet(&cfg.Providers, cfg.Aggregation.PerCallTimeout)

	store := cache.New(cfg.Cache.TTL,
		cache.WithMaxEntries(cfg.Cache.MaxEntries),
		cache.WithObserver(cache.NewPrometheusObserver("aggregation")),
	)

	agg := aggregate.New(set, scorer, store, aggregate.OptionsFromConfig(&cfg.Aggregation, &cfg.Scoring))

	handler := api.NewHandler(agg, api.HandlerOptions{
		Limits:  api.LimitsFromConfig(&cfg.Aggregation),
		Scoring: scoring,
		Version: version,
	})
	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security, cfg.IsProduction()))
	router := api.NewRouter(handler, mw).SetupChi()

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("scoring", scoring).
		Dur("cache_ttl", cfg.Cache.TTL).
		Int("cache_max_entries", cfg.Cache.MaxEntries).
		Msg("Application components initialized")

	return &application{
		cfg:        cfg,
		store:      store,
		aggregator: agg,
		handler:    router,
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
			Handler:           router,
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
		},
	}, nil
}
