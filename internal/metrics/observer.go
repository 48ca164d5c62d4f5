// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package metrics

import (
	"time"

	"github.com/tomtom215/buyonix-recommender/internal/recommend"
)

// EngineObserver records recommendation engine events as Prometheus metrics.
type EngineObserver struct{}

var _ recommend.Observer = EngineObserver{}

// TrainingCompleted updates the active-model gauges.
func (EngineObserver) TrainingCompleted(source string, duration time.Duration, m *recommend.Model) {
	ModelTrainingsTotal.WithLabelValues(source).Inc()
	ModelTrainingDuration.WithLabelValues(source).Observe(duration.Seconds())
	ModelLastTrained.Set(float64(time.Now().Unix()))

	if m == nil {
		return
	}
	ModelUsers.Set(float64(m.NumUsers()))
	ModelProducts.Set(float64(m.NumProducts()))
	ModelFactors.Set(float64(m.Factors()))
	ModelExplainedVariance.Set(m.ExplainedVariance())
}

func (EngineObserver) TrainingFailed(reason string) {
	ModelTrainingFailures.WithLabelValues(reason).Inc()
}

func (EngineObserver) DriftDetected() {
	ModelDriftDetected.Inc()
}

func (EngineObserver) UpstreamFallback(operation string) {
	UpstreamFallbacks.WithLabelValues(operation).Inc()
}

func (EngineObserver) RecordsDropped(n int) {
	InteractionsDropped.Add(float64(n))
}

func (EngineObserver) RecommendationServed(duration time.Duration, count int, err error) {
	RecommendationsServed.WithLabelValues(recommendResult(count, err)).Inc()
	RecommendationLatency.Observe(duration.Seconds())
	if err == nil {
		RecommendationItems.Observe(float64(count))
	}
}

// ModelLoaded sets the active-model gauges for a model reloaded from the
// store, which does not count as a training.
func ModelLoaded(m *recommend.Model) {
	if !m.Fitted() {
		return
	}
	ModelUsers.Set(float64(m.NumUsers()))
	ModelProducts.Set(float64(m.NumProducts()))
	ModelFactors.Set(float64(m.Factors()))
	ModelExplainedVariance.Set(m.ExplainedVariance())
}
