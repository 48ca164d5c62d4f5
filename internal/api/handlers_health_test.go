// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/buyonix-recommender/internal/middleware"
	"github.com/tomtom215/buyonix-recommender/internal/recommend"
)

func TestHealthLive(t *testing.T) {
	srv := newTestServer(newTestHandler(&mockEngine{}, &mockStore{pingErr: errors.New("down")}))

	w, env := doRequest(t, srv, http.MethodGet, "/api/v1/health/live", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !env.Success {
		t.Error("liveness should succeed regardless of dependencies")
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		pingErr    error
		wantStatus int
	}{
		{"model loaded and database up", true, nil, http.StatusOK},
		{"model not trained", false, nil, http.StatusServiceUnavailable},
		{"database down", true, errors.New("connection refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(newTestHandler(&mockEngine{ready: tt.ready}, &mockStore{pingErr: tt.pingErr}))
			w, env := doRequest(t, srv, http.MethodGet, "/api/v1/health/ready", nil)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var status ReadinessStatus
			decodeData(t, env, &status)
			if status.ReadyToServe != (tt.wantStatus == http.StatusOK) {
				t.Errorf("ready_to_serve = %v", status.ReadyToServe)
			}
			if status.ModelReady != tt.ready {
				t.Errorf("model_ready = %v, want %v", status.ModelReady, tt.ready)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		pingErr    error
		breaker    string
		wantStatus string
	}{
		{"healthy", true, nil, "closed", "healthy"},
		{"untrained model", false, nil, "closed", "degraded"},
		{"database down", true, errors.New("down"), "closed", "degraded"},
		{"breaker open", true, nil, "open", "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &mockEngine{
				ready: tt.ready,
				stats: recommend.Stats{Status: recommend.StatusTrained, ModelVersion: 4, DataSource: recommend.SourceStored},
			}
			h := newTestHandler(engine, &mockStore{pingErr: tt.pingErr},
				WithBreakers(mockBreaker{name: "interaction-store", state: tt.breaker}))
			w, env := doRequest(t, newTestServer(h), http.MethodGet, "/api/v1/health", nil)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			var status HealthStatus
			decodeData(t, env, &status)
			if status.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status.Status, tt.wantStatus)
			}
			if status.Breakers["interaction-store"] != tt.breaker {
				t.Errorf("breakers = %v", status.Breakers)
			}
			if status.ModelVersion != 4 {
				t.Errorf("model_version = %d, want 4", status.ModelVersion)
			}
			if status.VisualEnabled {
				t.Error("visual search reported enabled without a searcher")
			}
		})
	}
}

func TestPerformance(t *testing.T) {
	pm := middleware.NewPerformanceMonitor(100, 0, zerolog.Nop())
	h := newTestHandler(&mockEngine{}, &mockStore{}, WithPerformanceMonitor(pm))
	srv := newTestServer(h)

	for i := 0; i < 3; i++ {
		doRequest(t, srv, http.MethodGet, "/api/v1/recommendations/stats", nil)
	}

	w, env := doRequest(t, srv, http.MethodGet, "/api/v1/performance", nil, withAdmin())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var stats []middleware.EndpointStats
	decodeData(t, env, &stats)
	found := false
	for _, s := range stats {
		if s.Endpoint == "GET /api/v1/recommendations/stats" {
			found = true
			if s.RequestCount != 3 {
				t.Errorf("request count = %d, want 3", s.RequestCount)
			}
		}
	}
	if !found {
		t.Errorf("stats endpoint missing from %+v", stats)
	}
}

// =====================================================
// Router Tests
// =====================================================

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	srv := newTestServer(newTestHandler(&mockEngine{}, &mockStore{}))

	w, env := doRequest(t, srv, http.MethodGet, "/api/v1/nope", nil)
	if w.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("not found: status %d error %+v", w.Code, env.Error)
	}

	w, _ = doRequest(t, srv, http.MethodDelete, "/api/v1/recommendations/stats", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("method not allowed: status = %d, want 405", w.Code)
	}
}

func TestRouter_RequestIDAndSecurityHeaders(t *testing.T) {
	srv := newTestServer(newTestHandler(&mockEngine{}, &mockStore{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/stats", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if got := w.Header().Get(middleware.RequestIDHeader); got != "req-123" {
		t.Errorf("X-Request-ID = %q, want req-123", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if !strings.Contains(w.Body.String(), `"request_id":"req-123"`) {
		t.Errorf("request id missing from envelope: %s", w.Body.String())
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	srv := newTestServer(newTestHandler(&mockEngine{}, &mockStore{}))
	doRequest(t, srv, http.MethodGet, "/api/v1/health/live", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "api_requests_total") {
		t.Error("api_requests_total missing from scrape output")
	}
}
