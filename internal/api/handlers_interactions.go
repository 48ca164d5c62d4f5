// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/buyonix-recommender/internal/database"
	"github.com/tomtom215/buyonix-recommender/internal/logging"
	"github.com/tomtom215/buyonix-recommender/internal/recommend"
)

// RecordInteractionsResponse is the payload of POST /api/v1/interactions.
type RecordInteractionsResponse struct {
	Recorded int `json:"recorded"`
}

// RecordInteractions handles POST /api/v1/interactions.
//
// Body: {"interactions": [{"user_id": "u1", "product_id": "p1", "action": "purchase", "rating": 5}]}
//
// The batch is stored atomically. New interactions reach the model on the
// next retrain or drift-triggered refresh.
func (h *Handler) RecordInteractions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RecordInteractionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	now := time.Now().UTC()
	batch := make([]recommend.RawInteraction, len(req.Interactions))
	for i := range req.Interactions {
		batch[i] = req.Interactions[i].toRaw(now)
	}

	if err := h.store.RecordInteractions(r.Context(), batch); err != nil {
		if errors.Is(err, database.ErrInvalidInteraction) {
			rw.BadRequest(err.Error())
			return
		}
		rw.DatabaseError(err)
		return
	}

	logging.Ctx(r.Context()).Debug().Int("count", len(batch)).Msg("Interactions recorded")

	rw.Created(RecordInteractionsResponse{Recorded: len(batch)})
}

// ListInteractions handles GET /api/v1/interactions.
//
// Query parameters: since, until (RFC3339), users, products, actions
// (comma-separated) and limit (default 100, max 10000).
func (h *Handler) ListInteractions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, ok := getIntParam(r, "limit", defaultListLimit)
	if !ok {
		rw.BadRequest("limit must be an integer")
		return
	}

	q := r.URL.Query()
	req := ListInteractionsRequest{
		Since:    q.Get("since"),
		Until:    q.Get("until"),
		Users:    parseCommaSeparated(q.Get("users")),
		Products: parseCommaSeparated(q.Get("products")),
		Actions:  parseCommaSeparated(q.Get("actions")),
		Limit:    limit,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	interactions, err := h.store.ListInteractions(r.Context(), req.toFilter())
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if interactions == nil {
		interactions = []recommend.RawInteraction{}
	}

	rw.SuccessList(interactions, len(interactions))
}
