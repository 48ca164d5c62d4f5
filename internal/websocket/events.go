// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package websocket

import (
	"time"

	"github.com/tomtom215/buyonix-recommender/internal/recommend"
)

// ModelTrainedData is sent with model_trained.
type ModelTrainedData struct {
	Timestamp         string  `json:"timestamp"`
	DataSource        string  `json:"data_source"`
	DurationMs        int64   `json:"duration_ms"`
	NUsers            int     `json:"n_users"`
	NProducts         int     `json:"n_products"`
	NFactors          int     `json:"n_factors"`
	TotalInteractions int     `json:"total_interactions"`
	ExplainedVariance float64 `json:"explained_variance"`
}

// TrainingFailedData is sent with training_failed.
type TrainingFailedData struct {
	Timestamp string `json:"timestamp"`
	Reason    string `json:"reason"`
}

// ModelDriftData is sent with model_drift.
type ModelDriftData struct {
	Timestamp string `json:"timestamp"`
}

// EngineEvents publishes model lifecycle events on the hub. Request-level
// events are not forwarded.
type EngineEvents struct {
	hub *Hub
	now func() time.Time
}

var _ recommend.Observer = (*EngineEvents)(nil)

// NewEngineEvents creates an observer broadcasting on hub.
func NewEngineEvents(hub *Hub) *EngineEvents {
	return &EngineEvents{hub: hub, now: time.Now}
}

func (e *EngineEvents) timestamp() string {
	return e.now().UTC().Format(time.RFC3339)
}

func (e *EngineEvents) TrainingCompleted(source string, duration time.Duration, m *recommend.Model) {
	data := ModelTrainedData{
		Timestamp:  e.timestamp(),
		DataSource: source,
		DurationMs: duration.Milliseconds(),
	}
	if m.Fitted() {
		data.NUsers = m.NumUsers()
		data.NProducts = m.NumProducts()
		data.NFactors = m.Factors()
		data.TotalInteractions = m.TotalInteractions()
		data.ExplainedVariance = m.ExplainedVariance()
	}
	e.hub.BroadcastJSON(MessageTypeModelTrained, data)
}

func (e *EngineEvents) TrainingFailed(reason string) {
	e.hub.BroadcastJSON(MessageTypeTrainingFailed, TrainingFailedData{
		Timestamp: e.timestamp(),
		Reason:    reason,
	})
}

func (e *EngineEvents) DriftDetected() {
	e.hub.BroadcastJSON(MessageTypeModelDrift, ModelDriftData{Timestamp: e.timestamp()})
}

func (e *EngineEvents) UpstreamFallback(string) {}
func (e *EngineEvents) RecordsDropped(int) {}
func (e *EngineEvents) RecommendationServed(time.Duration, int, error) {}
