// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// All collectors register with the default registry on package load and are
// exposed by the /metrics endpoint.

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Model Lifecycle Metrics
	ModelTrainingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_model_trainings_total",
			Help: "Total number of completed model trainings",
		},
		[]string{"source"}, // "real", "synthetic"
	)

	ModelTrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_model_training_duration_seconds",
			Help:    "Duration of model training runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"source"},
	)

	ModelTrainingFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_model_training_failures_total",
			Help: "Total number of failed model lifecycle runs",
		},
		[]string{"operation"}, // "initialize", "retrain", "train"
	)

	ModelDriftDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_model_drift_detected_total",
			Help: "Total number of stored models discarded because the population changed",
		},
	)

	ModelUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_users",
			Help: "Number of users in the active model",
		},
	)

	ModelProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_products",
			Help: "Number of products in the active model",
		},
	)

	ModelFactors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_factors",
			Help: "Number of latent factors in the active model",
		},
	)

	ModelExplainedVariance = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_explained_variance_ratio",
			Help: "Fraction of rating variance captured by the active model",
		},
	)

	ModelLastTrained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_last_trained_timestamp",
			Help: "Unix timestamp of the last completed training",
		},
	)

	UpstreamFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_upstream_fallbacks_total",
			Help: "Total number of interaction store calls that fell back to defaults",
		},
		[]string{"operation"},
	)

	InteractionsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_interactions_dropped_total",
			Help: "Total number of malformed interaction records discarded during aggregation",
		},
	)

	// Serving Metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"result"}, // "success", "empty", "error"
	)

	RecommendationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_latency_seconds",
			Help:    "Time to rank recommendations for one user",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	RecommendationItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_items_returned",
			Help:    "Number of products returned per recommendation request",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50, 100},
		},
	)

	// Visual Similarity Metrics
	VisualExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visual_feature_extractions_total",
			Help: "Total number of image feature extraction calls",
		},
		[]string{"result"}, // "success", "failure"
	)

	VisualExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "visual_feature_extraction_duration_seconds",
			Help:    "Duration of image feature extraction calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected", "refused"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordVisualExtraction records one feature extraction call.
func RecordVisualExtraction(duration time.Duration, err error) {
	VisualExtractionDuration.Observe(duration.Seconds())
	if err != nil {
		VisualExtractions.WithLabelValues("failure").Inc()
		return
	}
	VisualExtractions.WithLabelValues("success").Inc()
}

// SetAppInfo publishes build information and starts the uptime clock.
func SetAppInfo(version, goVersion string, started time.Time) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
	AppUptime.Set(time.Since(started).Seconds())
}

// UpdateUptime refreshes the uptime gauge.
func UpdateUptime(started time.Time) {
	AppUptime.Set(time.Since(started).Seconds())
}

// recommendResult classifies a recommendation outcome for labeling.
func recommendResult(count int, err error) string {
	switch {
	case err != nil:
		return "error"
	case count == 0:
		return "empty"
	default:
		return "success"
	}
}
