// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/buyonix-recommender/internal/middleware"
)

// pingTimeout bounds the database check of the health probes.
const pingTimeout = 2 * time.Second

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status            string            `json:"status"`
	DatabaseConnected bool              `json:"database_connected"`
	ModelStatus       string            `json:"model_status"`
	ModelVersion      int               `json:"model_version,omitempty"`
	DataSource        string            `json:"data_source,omitempty"`
	VisualEnabled     bool              `json:"visual_search_enabled"`
	Breakers          map[string]string `json:"circuit_breakers,omitempty"`
	Uptime            float64           `json:"uptime"`
}

// ReadinessStatus is the payload of GET /api/v1/health/ready.
type ReadinessStatus struct {
	DatabaseConnected bool    `json:"database_connected"`
	ModelReady        bool    `json:"model_ready"`
	ReadyToServe      bool    `json:"ready_to_serve"`
	Uptime            float64 `json:"uptime"`
}

// Health handles GET /api/v1/health. It always answers 200 and reports
// "degraded" when the database is unreachable, the model is untrained or a
// circuit breaker is open.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.pingStore(r.Context())
	stats := h.engine.Stats()

	breakers := make(map[string]string, len(h.breakers))
	breakerOpen := false
	for _, b := range h.breakers {
		state := b.State()
		breakers[b.Name()] = state
		if state == "open" {
			breakerOpen = true
		}
	}

	status := "healthy"
	if !dbConnected || !h.engine.Ready() || breakerOpen {
		status = "degraded"
	}

	NewResponseWriter(w, r).Success(HealthStatus{
		Status:            status,
		DatabaseConnected: dbConnected,
		ModelStatus:       stats.Status,
		ModelVersion:      stats.ModelVersion,
		DataSource:        stats.DataSource,
		VisualEnabled:     h.visual != nil,
		Breakers:          breakers,
		Uptime:            time.Since(h.startTime).Seconds(),
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only when the database answers and a model is loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.pingStore(r.Context())
	modelReady := h.engine.Ready()
	ready := dbConnected && modelReady

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	NewResponseWriter(w, r).Status(statusCode, ReadinessStatus{
		DatabaseConnected: dbConnected,
		ModelReady:        modelReady,
		ReadyToServe:      ready,
		Uptime:            time.Since(h.startTime).Seconds(),
	})
}

// Performance handles GET /api/v1/performance with per-route latency
// statistics over the recent request window.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	stats := h.GetPerformanceStats()
	if stats == nil {
		stats = []middleware.EndpointStats{}
	}
	NewResponseWriter(w, r).SuccessList(stats, len(stats))
}

// GetPerformanceStats returns performance monitoring statistics
func (h *Handler) GetPerformanceStats() []middleware.EndpointStats {
	if h.perfMon != nil {
		return h.perfMon.GetStats()
	}
	return nil
}

func (h *Handler) pingStore(ctx context.Context) bool {
	if h.store == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return h.store.Ping(ctx) == nil
}
