// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/tomtom215/buyonix-recommender/internal/config"
	"github.com/tomtom215/buyonix-recommender/internal/metrics"
	"github.com/tomtom215/buyonix-recommender/internal/recommend"
	"github.com/tomtom215/buyonix-recommender/internal/recommend/storage"
	"github.com/tomtom215/buyonix-recommender/internal/supervisor"
	"github.com/tomtom215/buyonix-recommender/internal/supervisor/services"
	"github.com/tomtom215/buyonix-recommender/internal/upstream"
	"github.com/tomtom215/buyonix-recommender/internal/websocket"
)

// RecommendComponents holds all recommendation-related components.
type RecommendComponents struct {
	Engine  *recommend.Engine
	Source  *upstream.Source
	Service *services.ModelRefreshService
	Events  *websocket.Hub

	store storage.Backend
}

// Close releases resources held by the model store.
func (c *RecommendComponents) Close() error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Close()
}

// initRecommend builds the recommendation engine on top of the interaction
// store and registers its refresh service and event hub with the supervisor
// tree.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, interactions recommend.InteractionSource, logger zerolog.Logger, tree *supervisor.SupervisorTree) (*RecommendComponents, error) {
	logger.Info().
		Str("model_path", cfg.Recommend.ModelPath).
		Str("store_backend", cfg.Recommend.StoreBackend).
		Int("factors", cfg.Recommend.Factors).
		Int("min_real_interactions", cfg.Recommend.MinRealInteractions).
		Dur("refresh_interval", cfg.Recommend.RefreshInterval).
		Msg("initializing recommendation engine")

	store, err := storage.Open(cfg.Recommend.StoreBackend, cfg.Recommend.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}

	source := upstream.NewSource(interactions, &cfg.Upstream)

	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), source, store, logger)
	if err != nil {
		_ = store.Close() //nolint:errcheck // already returning the construction error
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	hub := websocket.NewHub()
	tree.AddAPIService(services.NewEventHubService(hub))
	engine.SetObserver(recommend.Observers(metrics.EngineObserver{}, websocket.NewEngineEvents(hub)))

	if cfg.Recommend.CacheSize > 0 {
		if err := prometheus.Register(metrics.NewCacheCollector("recommendations", engine.CacheStats)); err != nil {
			logger.Warn().Err(err).Msg("failed to register recommendation cache metrics")
		}
	}

	service := services.NewModelRefreshService(engine, services.ModelRefreshConfig{
		InitializeOnStartup: true,
		RefreshInterval:     cfg.Recommend.RefreshInterval,
	}, logger)
	tree.AddModelService(service)

	logger.Info().
		Str("breaker", source.Breaker().Name()).
		Msg("model refresh service added to supervisor tree")

	return &RecommendComponents{
		Engine:  engine,
		Source:  source,
		Service: service,
		Events:  hub,
		store:   store,
	}, nil
}
