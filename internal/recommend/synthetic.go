// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package recommend

import (
	"fmt"
	"math/rand"
	"time"
)

// SyntheticConfig sizes a synthetic interaction data set.
type SyntheticConfig struct {
	// Users is the number of synthetic users (user_1..user_N).
	// Default: 5.
	Users int `json:"users"`

	// Products is the number of synthetic products (product_1..product_N).
	// Default: 45.
	Products int `json:"products"`

	// Interactions is the number of generated rating records.
	// Default: 3000.
	Interactions int `json:"interactions"`

	// Seed makes generation reproducible. Zero selects the default seed.
	// Default: 42.
	Seed int64 `json:"seed"`
}

// ratingValues and ratingCDF describe the star-rating distribution of the
// generator, skewed towards positive feedback:
// P(1)=.05 P(2)=.10 P(3)=.20 P(4)=.35 P(5)=.30.
var (
	ratingValues = [...]float64{1, 2, 3, 4, 5}
	ratingCDF    = [...]float64{0.05, 0.15, 0.35, 0.70, 1.0}
)

// syntheticEpoch anchors generated timestamps so output is reproducible.
var syntheticEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// GenerateSynthetic produces a reproducible sequence of purchase records with
// star ratings. The same configuration always yields the same sequence.
// Non-positive sizes produce an empty sequence.
func GenerateSynthetic(cfg SyntheticConfig) []RawInteraction {
	if cfg.Users < 1 || cfg.Products < 1 || cfg.Interactions < 1 {
		return []RawInteraction{}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // math/rand is fine for synthetic data

	out := make([]RawInteraction, 0, cfg.Interactions)
	for i := 0; i < cfg.Interactions; i++ {
		user := rng.Intn(cfg.Users) + 1
		product := rng.Intn(cfg.Products) + 1
		rating := drawRating(rng.Float64())

		out = append(out, RawInteraction{
			UserID:    fmt.Sprintf("user_%d", user),
			ProductID: fmt.Sprintf("product_%d", product),
			Action:    ActionPurchase,
			Rating:    rating,
			Timestamp: syntheticEpoch.Add(time.Duration(i) * time.Minute),
		})
	}

	return out
}

// drawRating maps a uniform sample in [0,1) onto the rating distribution.
func drawRating(u float64) float64 {
	for i, threshold := range ratingCDF {
		if u < threshold {
			return ratingValues[i]
		}
	}
	return ratingValues[len(ratingValues)-1]
}
