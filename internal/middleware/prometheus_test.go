// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"

	"github.com/tomtom215/buyonix-recommender/internal/metrics"
)

func getCounterValue(counter prometheus.Counter) float64 {
	var m io_prometheus_client.Metric
	if err := counter.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func getGaugeValue(gauge prometheus.Gauge) float64 {
	var m io_prometheus_client.Metric
	if err := gauge.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

func TestPrometheusMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/api/v1/recommendations/user/{userID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	const pattern = "/api/v1/recommendations/user/{userID}"
	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, pattern, "503")
	before := getCounterValue(counter)

	for _, user := range []string{"u1", "u2", "u3"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/user/"+user, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
	}

	if got := getCounterValue(counter) - before; got != 3 {
		t.Errorf("requests for %s = %v, want 3", pattern, got)
	}
}

func TestPrometheusMetrics_Unmatched(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/known", func(w http.ResponseWriter, r *http.Request) {})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
	before := getCounterValue(counter)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/does/not/exist", nil))

	if got := getCounterValue(counter) - before; got != 1 {
		t.Errorf("unmatched requests = %v, want 1", got)
	}
}

func TestPrometheusMetrics_ActiveRequests(t *testing.T) {
	var during float64
	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = getGaugeValue(metrics.APIActiveRequests)
	}))

	before := getGaugeValue(metrics.APIActiveRequests)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	after := getGaugeValue(metrics.APIActiveRequests)

	if during < before+1 {
		t.Errorf("active requests during = %v, want >= %v", during, before+1)
	}
	if after != before {
		t.Errorf("active requests after = %v, want %v", after, before)
	}
}

func TestRoutePattern_WithoutRouter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/raw/path", nil)
	if got := RoutePattern(req); got != unmatchedRoute {
		t.Errorf("RoutePattern() = %q, want %q", got, unmatchedRoute)
	}
}

func TestStatusRecorder_FirstWriteWins(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, statusCode: http.StatusOK}

	sr.WriteHeader(http.StatusCreated)
	sr.WriteHeader(http.StatusInternalServerError)

	if sr.statusCode != http.StatusCreated {
		t.Errorf("statusCode = %d, want %d", sr.statusCode, http.StatusCreated)
	}
	if sr.Unwrap() != rec {
		t.Error("Unwrap() did not return the underlying writer")
	}
}

func TestStatusRecorder_Hijack(t *testing.T) {
	// httptest.ResponseRecorder cannot be hijacked.
	sr := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	if _, _, err := sr.Hijack(); err == nil {
		t.Error("Hijack() on a recorder should fail")
	}

	hijacked := make(chan error, 1)
	server := httptest.NewServer(PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := w.(http.Hijacker)
		if !ok {
			hijacked <- http.ErrNotSupported
			return
		}
		conn, _, err := h.Hijack()
		if err == nil {
			_ = conn.Close()
		}
		hijacked <- err
	})))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err == nil {
		_ = resp.Body.Close()
	}
	if err := <-hijacked; err != nil {
		t.Errorf("Hijack() through middleware error = %v", err)
	}
}
