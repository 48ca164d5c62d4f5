// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package api

import (
	"time"

	"github.com/tomtom215/buyonix-recommender/internal/database"
	"github.com/tomtom215/buyonix-recommender/internal/recommend"
	"github.com/tomtom215/buyonix-recommender/internal/visual"
)

// Request structs carry go-playground/validator tags and are checked with
// validateRequest before any handler logic runs. The custom tags are:
//   - entityid: 1-128 characters of letters, digits, '_', '-', '.' or ':'
//   - interaction: one of view, cart, save, purchase (empty allowed)

// defaultListLimit is used when GET /api/v1/interactions has no limit.
const defaultListLimit = 100

// RecommendationsRequest is the validated input of
// GET /api/v1/recommendations/user/{userID}.
type RecommendationsRequest struct {
	UserID string `json:"user_id" validate:"required,entityid"`
	N      int    `json:"n" validate:"gte=0"`
}

// PredictRequest is the validated input of GET /api/v1/recommendations/predict.
type PredictRequest struct {
	UserID    string `json:"user" validate:"required,entityid"`
	ProductID string `json:"product" validate:"required,entityid"`
}

// InteractionInput is one interaction in POST /api/v1/interactions.
type InteractionInput struct {
	UserID    string     `json:"user_id" validate:"required,entityid"`
	ProductID string     `json:"product_id" validate:"required,entityid"`
	Action    string     `json:"action" validate:"interaction"`
	Rating    float64    `json:"rating" validate:"gte=0,lte=5"`
	Weight    float64    `json:"weight" validate:"gte=0"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// toRaw converts the input into an interaction store record.
func (in *InteractionInput) toRaw(now time.Time) recommend.RawInteraction {
	ts := now
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = in.Timestamp.UTC()
	}
	return recommend.RawInteraction{
		UserID:    in.UserID,
		ProductID: in.ProductID,
		Action:    recommend.Action(in.Action),
		Rating:    in.Rating,
		Weight:    in.Weight,
		Timestamp: ts,
	}
}

// RecordInteractionsRequest is the body of POST /api/v1/interactions.
type RecordInteractionsRequest struct {
	Interactions []InteractionInput `json:"interactions" validate:"required,min=1,max=1000,dive"`
}

// ListInteractionsRequest is the validated query of GET /api/v1/interactions.
// Users, products and actions are comma-separated in the query string.
type ListInteractionsRequest struct {
	Since    string   `json:"since" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Until    string   `json:"until" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Users    []string `json:"users" validate:"omitempty,max=100,dive,entityid"`
	Products []string `json:"products" validate:"omitempty,max=100,dive,entityid"`
	Actions  []string `json:"actions" validate:"omitempty,dive,interaction"`
	Limit    int      `json:"limit" validate:"gte=1,lte=10000"`
}

// toFilter converts the validated query into a store filter. Timestamps have
// already passed the datetime check.
func (req *ListInteractionsRequest) toFilter() database.InteractionFilter {
	filter := database.InteractionFilter{
		Users:    req.Users,
		Products: req.Products,
		Actions:  req.Actions,
		Limit:    req.Limit,
	}
	if t, err := time.Parse(time.RFC3339, req.Since); err == nil {
		filter.Since = &t
	}
	if t, err := time.Parse(time.RFC3339, req.Until); err == nil {
		filter.Until = &t
	}
	return filter
}

// ProductRequest is the body of PUT /api/v1/products/{productID}.
type ProductRequest struct {
	ID       string  `json:"id" validate:"required,entityid"`
	Name     string  `json:"name" validate:"max=256"`
	Category string  `json:"category" validate:"max=128"`
	Price    float64 `json:"price" validate:"gte=0"`
	Active   *bool   `json:"active,omitempty"`
}

// toProduct converts the request into a catalog entry. Products are active
// unless the request says otherwise.
func (req *ProductRequest) toProduct() database.Product {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return database.Product{
		ID:       req.ID,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Active:   active,
	}
}

// CandidateInput is a caller-supplied embedding for visual search.
type CandidateInput struct {
	ProductID string    `json:"product_id" validate:"required,entityid"`
	Embedding []float64 `json:"embedding" validate:"required,min=1"`
}

// VisualSearchRequest is the body of POST /api/v1/visual/similar. When
// candidates are omitted the stored catalog embeddings are searched.
type VisualSearchRequest struct {
	Image      string           `json:"image" validate:"required"`
	TopN       int              `json:"top_n" validate:"gte=0,lte=100"`
	Candidates []CandidateInput `json:"candidates" validate:"omitempty,max=10000,dive"`
}

// searchOptions converts the request into searcher options.
func (req *VisualSearchRequest) searchOptions() visual.SearchOptions {
	opts := visual.SearchOptions{TopN: req.TopN}
	if len(req.Candidates) > 0 {
		opts.Candidates = make([]visual.Candidate, len(req.Candidates))
		for i, c := range req.Candidates {
			opts.Candidates[i] = visual.Candidate{ProductID: c.ProductID, Embedding: c.Embedding}
		}
	}
	return opts
}

// EmbeddingRequest is the body of POST /api/v1/visual/products/{productID}/embedding.
type EmbeddingRequest struct {
	ProductID string `json:"product_id" validate:"required,entityid"`
	Image     string `json:"image" validate:"required"`
}
