// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/buyonix-recommender/internal/database"
	"github.com/tomtom215/buyonix-recommender/internal/upstream"
	"github.com/tomtom215/buyonix-recommender/internal/visual"
)

// VisualSearchResponse is the payload of POST /api/v1/visual/similar.
type VisualSearchResponse struct {
	Matches []visual.Match `json:"matches"`
}

// EmbeddingResponse is the payload of the product embedding endpoint.
type EmbeddingResponse struct {
	ProductID  string `json:"product_id"`
	Dimensions int    `json:"dimensions"`
}

// VisualSimilar handles POST /api/v1/visual/similar.
//
// Body: {"image": "data:image/jpeg;base64,...", "top_n": 10}
//
// Without "candidates" the stored embeddings of active products are searched.
func (h *Handler) VisualSimilar(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.visual == nil {
		rw.ServiceUnavailable(ErrCodeVisualDisabled, "Visual search is not enabled")
		return
	}

	var req VisualSearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	matches, err := h.visual.Search(r.Context(), req.Image, req.searchOptions())
	if err != nil {
		respondVisualError(rw, err)
		return
	}
	if matches == nil {
		matches = []visual.Match{}
	}

	rw.SuccessList(VisualSearchResponse{Matches: matches}, len(matches))
}

// StoreProductEmbedding handles POST /api/v1/visual/products/{productID}/embedding.
// The product image is sent to the extraction service and the resulting
// embedding is stored for later searches.
func (h *Handler) StoreProductEmbedding(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.visual == nil {
		rw.ServiceUnavailable(ErrCodeVisualDisabled, "Visual search is not enabled")
		return
	}

	var req EmbeddingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req.ProductID = chi.URLParam(r, "productID")
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	embedding, err := h.visual.Embed(r.Context(), req.Image)
	if err != nil {
		respondVisualError(rw, err)
		return
	}

	if err := h.store.UpsertProductEmbedding(r.Context(), req.ProductID, embedding); err != nil {
		if errors.Is(err, database.ErrInvalidProduct) {
			rw.BadRequest(err.Error())
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Created(EmbeddingResponse{ProductID: req.ProductID, Dimensions: len(embedding)})
}

// respondVisualError maps extraction failures to API responses.
func respondVisualError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, visual.ErrNoImage):
		rw.BadRequest(err.Error())
	case errors.Is(err, visual.ErrImageRejected):
		rw.BadRequest(err.Error())
	case errors.Is(err, upstream.ErrCircuitOpen):
		rw.ServiceUnavailable(ErrCodeServiceUnavailable, "Feature extraction service is temporarily unavailable")
	case errors.Is(err, visual.ErrExtraction):
		rw.ExternalServiceError(visual.ExtractorBreakerName, err)
	default:
		rw.DatabaseError(err)
	}
}
