// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/buyonix-recommender/internal/logging"
	"github.com/tomtom215/buyonix-recommender/internal/recommend"
)

// defaultRetrainTimeout bounds a manual retrain when none is configured.
const defaultRetrainTimeout = 10 * time.Minute

// RecommendationsResponse is the payload of the recommendations endpoint.
type RecommendationsResponse struct {
	UserID          string                     `json:"user_id"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// PredictionResponse is the payload of the predict endpoint.
type PredictionResponse struct {
	UserID          string  `json:"user_id"`
	ProductID       string  `json:"product_id"`
	PredictedRating float64 `json:"predicted_rating"`
}

// Recommendations handles GET /api/v1/recommendations/user/{userID}?n=5.
// An unknown user gets an empty list; an untrained model gets 503.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	n, ok := getIntParam(r, "n", 0)
	if !ok {
		rw.BadRequest("n must be an integer")
		return
	}

	req := RecommendationsRequest{UserID: chi.URLParam(r, "userID"), N: n}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	recs, err := h.engine.Recommend(r.Context(), req.UserID, req.N)
	if err != nil {
		respondEngineError(rw, r, err)
		return
	}
	if recs == nil {
		recs = []recommend.Recommendation{}
	}

	rw.SuccessList(RecommendationsResponse{UserID: req.UserID, Recommendations: recs}, len(recs))
}

// Predict handles GET /api/v1/recommendations/predict?user=..&product=..
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := PredictRequest{
		UserID:    r.URL.Query().Get("user"),
		ProductID: r.URL.Query().Get("product"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	rating, known, err := h.engine.Predict(r.Context(), req.UserID, req.ProductID)
	if err != nil {
		respondEngineError(rw, r, err)
		return
	}
	if !known {
		rw.NotFound("User or product is unknown to the current model")
		return
	}

	rw.Success(PredictionResponse{
		UserID:          req.UserID,
		ProductID:       req.ProductID,
		PredictedRating: rating,
	})
}

// ModelStats handles GET /api/v1/recommendations/stats. It always answers
// 200; an untrained model reports status "not_trained".
func (h *Handler) ModelStats(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.engine.Stats())
}

// Retrain handles POST /api/v1/recommendations/retrain. The run is detached
// from the request context so a client disconnect does not abort training.
func (h *Handler) Retrain(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	timeout := h.recommendConfig().TrainingTimeout
	if timeout <= 0 {
		timeout = defaultRetrainTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), timeout)
	defer cancel()

	logger := logging.Ctx(r.Context())
	logger.Info().Msg("Manual model retrain requested")

	start := time.Now()
	if err := h.engine.Retrain(ctx); err != nil {
		respondEngineError(rw, r, err)
		return
	}

	stats := h.engine.Stats()
	logger.Info().
		Int("model_version", stats.ModelVersion).
		Str("data_source", stats.DataSource).
		Dur("duration", time.Since(start)).
		Msg("Manual model retrain complete")

	rw.Success(stats)
}
