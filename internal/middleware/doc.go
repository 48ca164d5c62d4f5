// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

/*
Package middleware provides HTTP middleware for the recommendation API.

All middleware has the chi signature func(http.Handler) http.Handler.

Key Components:

  - RequestID: UUID request ids, propagated to the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled by
    chi route pattern
  - PerformanceMonitor: sliding-window latency percentiles per route and
    slow request warnings

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perf.Middleware)
*/
package middleware
