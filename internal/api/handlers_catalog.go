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
)

// UpsertProduct handles PUT /api/v1/products/{productID}. Changing the
// number of active products is what the drift check compares against, so
// catalog updates eventually trigger a retrain.
func (h *Handler) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req.ID = chi.URLParam(r, "productID")
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	product := req.toProduct()
	if err := h.store.UpsertProduct(r.Context(), product); err != nil {
		if errors.Is(err, database.ErrInvalidProduct) {
			rw.BadRequest(err.Error())
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Success(product)
}
