// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are created with promauto and register with the default registry,
so importing the package is enough to expose them on /metrics.

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint (chi route pattern), status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limiter rejections (counter)

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)

Model Lifecycle Metrics:
  - recommend_model_trainings_total: Completed trainings by data source
  - recommend_model_training_duration_seconds: Training latency (histogram)
  - recommend_model_training_failures_total: Failed lifecycle runs by operation
  - recommend_model_drift_detected_total: Stored models discarded on drift
  - recommend_model_users, recommend_model_products, recommend_model_factors:
    Shape of the active model (gauges)
  - recommend_model_explained_variance_ratio: Variance captured (gauge)
  - recommend_upstream_fallbacks_total: Interaction store calls replaced by
    defaults
  - recommend_interactions_dropped_total: Malformed raw records

Serving Metrics:
  - recommend_requests_total: Recommendation calls by result
    (success, empty, error)
  - recommend_latency_seconds: Ranking latency (histogram)
  - recommend_items_returned: Result size (histogram)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Labels name, result
  - circuit_breaker_consecutive_failures
  - circuit_breaker_state_transitions_total

# Engine Integration

EngineObserver implements recommend.Observer. The server installs it with
Engine.SetObserver so the recommend package stays free of Prometheus imports.

# Thread Safety

All collectors are safe for concurrent use.
*/
package metrics
