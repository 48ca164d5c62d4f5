// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func TestNewPerformanceMonitor_Defaults(t *testing.T) {
	pm := NewPerformanceMonitor(0, 0, zerolog.Nop())

	if pm.maxMetrics != 1 {
		t.Errorf("maxMetrics = %d, want 1", pm.maxMetrics)
	}
	if pm.slowThreshold != DefaultSlowThreshold {
		t.Errorf("slowThreshold = %v, want %v", pm.slowThreshold, DefaultSlowThreshold)
	}
}

func TestPerformanceMonitor_WindowEvictsOldest(t *testing.T) {
	pm := NewPerformanceMonitor(3, time.Second, zerolog.Nop())

	for i := int64(1); i <= 5; i++ {
		pm.RecordRequest(&RequestMetrics{Route: "/r", Method: http.MethodGet, DurationMS: i})
	}

	recent := pm.GetRecentMetrics(10)
	if len(recent) != 3 {
		t.Fatalf("len(recent) = %d, want 3", len(recent))
	}
	for i, want := range []int64{3, 4, 5} {
		if recent[i].DurationMS != want {
			t.Errorf("recent[%d].DurationMS = %d, want %d", i, recent[i].DurationMS, want)
		}
	}

	if got := pm.GetRecentMetrics(-1); len(got) != 0 {
		t.Errorf("GetRecentMetrics(-1) returned %d entries", len(got))
	}
}

func TestPerformanceMonitor_GetStats(t *testing.T) {
	pm := NewPerformanceMonitor(100, time.Second, zerolog.Nop())

	for _, d := range []int64{10, 20, 30, 40} {
		pm.RecordRequest(&RequestMetrics{Route: "/a", Method: http.MethodGet, DurationMS: d, StatusCode: http.StatusOK})
	}
	pm.RecordRequest(&RequestMetrics{Route: "/b", Method: http.MethodPost, DurationMS: 5, StatusCode: http.StatusInternalServerError})

	stats := pm.GetStats()
	if len(stats) != 2 {
		t.Fatalf("len(stats) = %d, want 2", len(stats))
	}

	a := stats[0]
	if a.Endpoint != "GET /a" {
		t.Fatalf("busiest endpoint = %q, want GET /a", a.Endpoint)
	}
	if a.RequestCount != 4 || a.MinDuration != 10 || a.MaxDuration != 40 {
		t.Errorf("GET /a stats = %+v", a)
	}
	if a.AvgDuration != 25 {
		t.Errorf("AvgDuration = %v, want 25", a.AvgDuration)
	}
	if a.P50Duration != 20 {
		t.Errorf("P50Duration = %d, want 20", a.P50Duration)
	}
	if a.ErrorCount != 0 {
		t.Errorf("ErrorCount = %d, want 0", a.ErrorCount)
	}

	if stats[1].ErrorCount != 1 {
		t.Errorf("POST /b ErrorCount = %d, want 1", stats[1].ErrorCount)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	var logs bytes.Buffer
	pm := NewPerformanceMonitor(10, time.Nanosecond, zerolog.New(&logs))

	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Get("/api/v1/recommendations/user/{userID}", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/user/42", nil))

	recent := pm.GetRecentMetrics(1)
	if len(recent) != 1 {
		t.Fatalf("recorded %d requests, want 1", len(recent))
	}
	if recent[0].Route != "/api/v1/recommendations/user/{userID}" {
		t.Errorf("Route = %q", recent[0].Route)
	}
	if recent[0].StatusCode != http.StatusTeapot {
		t.Errorf("StatusCode = %d, want %d", recent[0].StatusCode, http.StatusTeapot)
	}
	if !strings.Contains(logs.String(), "slow request detected") {
		t.Errorf("expected slow request warning, got %q", logs.String())
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []int64
		p      float64
		want   int64
	}{
		{"empty", nil, 0.5, 0},
		{"single", []int64{7}, 0.99, 7},
		{"median", []int64{1, 2, 3, 4, 5}, 0.5, 3},
		{"p99 of ten", []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.99, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentile(tt.sorted, tt.p); got != tt.want {
				t.Errorf("percentile() = %d, want %d", got, tt.want)
			}
		})
	}
}
