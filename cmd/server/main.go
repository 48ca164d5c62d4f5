// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/buyonix-recommender/internal/api"
	"github.com/tomtom215/buyonix-recommender/internal/config"
	"github.com/tomtom215/buyonix-recommender/internal/database"
	"github.com/tomtom215/buyonix-recommender/internal/logging"
	"github.com/tomtom215/buyonix-recommender/internal/metrics"
	"github.com/tomtom215/buyonix-recommender/internal/supervisor"
	"github.com/tomtom215/buyonix-recommender/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	started := time.Now()

	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "buyonix-recommender",
		Version:   version,
	})

	logging.Info().Str("version", version).Msg("Starting Buyonix Recommender with supervisor tree")
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("model_path", cfg.Recommend.ModelPath).
		Str("environment", cfg.Server.Environment).
		Bool("visual_enabled", cfg.Visual.Enabled).
		Msg("Configuration loaded")

	if cfg.Security.AdminToken == "" {
		logging.Warn().Msg("ADMIN_TOKEN not set - administrative endpoints are unauthenticated")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridges zerolog to slog for sutureslog
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfigFrom(&cfg.Supervisor))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === MODEL LAYER ===

	rec, err := initRecommend(cfg, db, logging.Logger(), tree)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing model store")
		}
	}()

	metrics.SetAppInfo(version, runtime.Version(), started)
	tree.AddModelService(services.NewUptimeService(started, 0))

	// === API LAYER ===

	handlerOpts := []api.HandlerOption{
		api.WithBreakers(rec.Source.Breaker()),
		api.WithEventHub(rec.Events),
	}
	if vis := initVisual(ctx, cfg, db, logging.Logger()); vis != nil {
		handlerOpts = append(handlerOpts,
			api.WithVisualSearch(vis.Searcher),
			api.WithBreakers(vis.Breaker),
		)
	}

	handler := api.NewHandler(rec.Engine, db, cfg, handlerOpts...)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport() //nolint:errcheck // best-effort report during shutdown
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	if err := db.Checkpoint(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Final database checkpoint failed")
	}

	logging.Info().Msg("Application stopped gracefully")
}
