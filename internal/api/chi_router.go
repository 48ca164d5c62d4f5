// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/buyonix-recommender/internal/middleware"
)

// Router wires handlers and middleware into the HTTP route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware factory uses the defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order. Metrics wrap the router so the
	// matched route pattern is known when the request completes.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.handler.PerformanceMonitor().Middleware)
	r.Use(chimiddleware.Compress(5, "application/json"))

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom("health", RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Recommendation Endpoints
	// ========================
	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("recommendations"))
		r.Use(APISecurityHeaders())

		r.Get("/user/{userID}", router.handler.Recommendations)
		r.Get("/predict", router.handler.Predict)
		r.Get("/stats", router.handler.ModelStats)

		// Retraining refits the whole model; admin only, strictly limited.
		r.With(
			router.chiMiddleware.RateLimitCustom("training", RateLimitTraining),
			router.chiMiddleware.RequireAdminToken(),
		).Post("/retrain", router.handler.Retrain)
	})

	// ========================
	// Data Ingestion Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("data"))
		r.Use(APISecurityHeaders())

		r.Post("/interactions", router.handler.RecordInteractions)
		r.With(router.chiMiddleware.RequireAdminToken()).Get("/interactions", router.handler.ListInteractions)
		r.With(router.chiMiddleware.RequireAdminToken()).Put("/products/{productID}", router.handler.UpsertProduct)
		r.With(router.chiMiddleware.RequireAdminToken()).Get("/performance", router.handler.Performance)
	})

	// ========================
	// Visual Search Endpoints
	// ========================
	r.Route("/api/v1/visual", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom("visual", RateLimitVisual))
		r.Use(APISecurityHeaders())

		r.Post("/similar", router.handler.VisualSimilar)
		r.With(router.chiMiddleware.RequireAdminToken()).Post("/products/{productID}/embedding", router.handler.StoreProductEmbedding)
	})

	// ========================
	// Event Feed
	// ========================
	r.With(router.chiMiddleware.RateLimitCustom("events", RateLimitEvents)).Get("/api/v1/events", router.handler.Events)

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	return r
}
