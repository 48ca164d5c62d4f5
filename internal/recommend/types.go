// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package recommend

import (
	"context"
	"time"
)

// Action classifies a shopper's interaction with a product.
type Action string

const (
	// ActionView indicates the product page was viewed.
	ActionView Action = "view"
	// ActionCart indicates the product was added to the cart.
	ActionCart Action = "cart"
	// ActionSave indicates the product was saved or liked.
	ActionSave Action = "save"
	// ActionPurchase indicates the product was purchased.
	ActionPurchase Action = "purchase"
)

// Weight returns the implicit-feedback weight of an action.
// A purchase earns a bonus of twice its star rating.
func (a Action) Weight(rating float64) float64 {
	switch a {
	case ActionView:
		return 1
	case ActionCart:
		return 2
	case ActionSave:
		return 3
	case ActionPurchase:
		if rating > 0 {
			return 5 + 2*rating
		}
		return 5
	default:
		return 1
	}
}

// Valid reports whether the action is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionCart, ActionSave, ActionPurchase:
		return true
	default:
		return false
	}
}

// RawInteraction is an interaction record as supplied by the interaction
// store, before deduplication. Slice order is arrival order.
type RawInteraction struct {
	// UserID identifies the shopper. Records without one are dropped.
	UserID string `json:"user_id"`

	// ProductID identifies the product. Records without one are dropped.
	ProductID string `json:"product_id"`

	// Action is the interaction type (view, cart, save, purchase).
	Action Action `json:"action,omitempty"`

	// Rating is the explicit star rating (1-5), or 0 if none was given.
	Rating float64 `json:"rating,omitempty"`

	// Weight is the implicit-feedback weight, or 0 to derive it from Action.
	Weight float64 `json:"weight,omitempty"`

	// Timestamp is when the interaction happened.
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Interaction is a deduplicated (user, product) observation.
type Interaction struct {
	UserID    string  `json:"user_id"`
	ProductID string  `json:"product_id"`
	Strength  float64 `json:"strength"`
}

// AsRaw converts the interaction back into a raw record carrying its
// strength as an explicit rating.
func (i Interaction) AsRaw() RawInteraction {
	return RawInteraction{
		UserID:    i.UserID,
		ProductID: i.ProductID,
		Rating:    i.Strength,
	}
}

// Recommendation is a single ranked product for a user.
type Recommendation struct {
	ProductID       string  `json:"product_id"`
	PredictedRating float64 `json:"predicted_rating"`
}

// Model status values reported by Stats.
const (
	StatusTrained    = "trained"
	StatusNotTrained = "not_trained"
)

// modelDescription is reported in Stats for a trained model.
const modelDescription = "Collaborative Filtering using Matrix Factorization (SVD)"

// Stats summarizes the active model.
type Stats struct {
	Status            string    `json:"status"`
	TrainingDate      time.Time `json:"training_date,omitempty"`
	NUsers            int       `json:"n_users,omitempty"`
	NProducts         int       `json:"n_products,omitempty"`
	NFactors          int       `json:"n_factors,omitempty"`
	TotalInteractions int       `json:"total_interactions,omitempty"`
	ExplainedVariance float64   `json:"explained_variance,omitempty"`
	Description       string    `json:"description,omitempty"`

	// ModelVersion is the persisted version of the active model.
	ModelVersion int `json:"model_version,omitempty"`

	// DataSource is "real" or "synthetic" for models trained in this process,
	// and "stored" for models reloaded from the model store.
	DataSource string `json:"data_source,omitempty"`
}

// InteractionSource is the interaction store adapter consumed by the engine.
// It is typically implemented by the database layer.
type InteractionSource interface {
	// CountActiveProducts returns the number of products currently on sale.
	CountActiveProducts(ctx context.Context) (int, error)

	// CountUsers returns the number of registered users.
	CountUsers(ctx context.Context) (int, error)

	// FetchInteractions returns raw interactions in arrival order.
	FetchInteractions(ctx context.Context) ([]RawInteraction, error)
}
