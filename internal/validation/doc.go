// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

// Package validation provides struct validation using go-playground/validator v10.
//
// It holds a thread-safe singleton validator with the recommender's custom
// tags and translates failures into the API's VALIDATION_ERROR payload.
//
// # Quick Start
//
//	type RecordInteractionRequest struct {
//	    UserID    string  `json:"user_id" validate:"required,entityid"`
//	    ProductID string  `json:"product_id" validate:"required,entityid"`
//	    Action    string  `json:"action" validate:"interaction"`
//	    Rating    float64 `json:"rating" validate:"gte=0,lte=5"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    rw.ValidationError(apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Custom Tags
//
//   - entityid: 1-128 characters from [A-Za-z0-9_.:-]; used for user and
//     product ids
//   - interaction: empty or one of view, cart, save, purchase
//
// Field names come from the json tag and include the path into batches, so a
// failure reads "interactions[2].user_id is required" rather than
// "UserID is required".
//
// # Thread Safety
//
// GetValidator builds the validator once (sync.OnceValue); validator.Validate
// caches struct metadata and is safe for concurrent use.
package validation
