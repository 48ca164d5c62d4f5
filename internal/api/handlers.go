// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package api

import (
	"context"
	"time"

	"github.com/tomtom215/buyonix-recommender/internal/config"
	"github.com/tomtom215/buyonix-recommender/internal/database"
	"github.com/tomtom215/buyonix-recommender/internal/logging"
	"github.com/tomtom215/buyonix-recommender/internal/middleware"
	"github.com/tomtom215/buyonix-recommender/internal/recommend"
	"github.com/tomtom215/buyonix-recommender/internal/visual"
	"github.com/tomtom215/buyonix-recommender/internal/websocket"
)

// RecommendEngine is the subset of *recommend.Engine used by the handlers.
type RecommendEngine interface {
	Recommend(ctx context.Context, userID string, n int) ([]recommend.Recommendation, error)
	Predict(ctx context.Context, userID, productID string) (float64, bool, error)
	Stats() recommend.Stats
	Retrain(ctx context.Context) error
	Ready() bool
}

// InteractionStore is the subset of *database.DB used by the handlers.
type InteractionStore interface {
	RecordInteractions(ctx context.Context, batch []recommend.RawInteraction) error
	ListInteractions(ctx context.Context, filter database.InteractionFilter) ([]recommend.RawInteraction, error)
	UpsertProduct(ctx context.Context, p database.Product) error
	UpsertProductEmbedding(ctx context.Context, productID string, embedding []float64) error
	Ping(ctx context.Context) error
}

// VisualSearcher is the subset of *visual.Searcher used by the handlers.
type VisualSearcher interface {
	Search(ctx context.Context, image string, opts visual.SearchOptions) ([]visual.Match, error)
	Embed(ctx context.Context, image string) ([]float64, error)
}

// BreakerStatus reports a circuit breaker for the readiness probe.
type BreakerStatus interface {
	Name() string
	State() string
}

var (
	_ RecommendEngine  = (*recommend.Engine)(nil)
	_ InteractionStore = (*database.DB)(nil)
	_ VisualSearcher   = (*visual.Searcher)(nil)
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: Shared helper functions
//   - handlers_health.go: Health, readiness and performance endpoints
//   - handlers_recommend.go: Recommendations, predictions, stats and retraining
//   - handlers_interactions.go: Interaction ingestion and listing
//   - handlers_catalog.go: Product catalog maintenance
//   - handlers_visual.go: Image similarity search
//   - handlers_events.go: Model lifecycle websocket feed
type Handler struct {
	engine    RecommendEngine
	store     InteractionStore
	visual    VisualSearcher
	eventHub  *websocket.Hub
	breakers  []BreakerStatus
	config    *config.Config
	perfMon   *middleware.PerformanceMonitor
	startTime time.Time
}

// HandlerOption configures optional Handler dependencies.
type HandlerOption func(*Handler)

// WithVisualSearch enables the /visual endpoints.
func WithVisualSearch(s VisualSearcher) HandlerOption {
	return func(h *Handler) { h.visual = s }
}

// WithBreakers adds circuit breakers to the readiness report.
func WithBreakers(breakers ...BreakerStatus) HandlerOption {
	return func(h *Handler) { h.breakers = append(h.breakers, breakers...) }
}

// WithPerformanceMonitor replaces the default request latency window.
func WithPerformanceMonitor(pm *middleware.PerformanceMonitor) HandlerOption {
	return func(h *Handler) { h.perfMon = pm }
}

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(engine, db, cfg, api.WithVisualSearch(searcher))
//	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)))
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(engine RecommendEngine, store InteractionStore, cfg *config.Config, opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:    engine,
		store:     store,
		config:    cfg,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.perfMon == nil {
		h.perfMon = middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowThreshold, logging.Logger())
	}
	return h
}

// PerformanceMonitor returns the monitor backing /api/v1/performance so the
// router can install its middleware.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}

// recommendConfig returns the configured recommendation limits.
func (h *Handler) recommendConfig() config.RecommendConfig {
	if h.config == nil {
		return config.RecommendConfig{}
	}
	return h.config.Recommend
}
