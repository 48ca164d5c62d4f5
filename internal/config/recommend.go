// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package config

import "github.com/tomtom215/buyonix-recommender/internal/recommend"

// EngineConfig converts the recommendation settings into the engine's
// configuration. The synthetic population defaults to the fallback counts.
func (r *RecommendConfig) EngineConfig() *recommend.Config {
	return &recommend.Config{
		ModelName:           r.ModelName,
		Factors:             r.Factors,
		MinRealInteractions: r.MinRealInteractions,
		FetchTimeout:        r.FetchTimeout,
		Population: recommend.PopulationConfig{
			DefaultProducts: r.DefaultProducts,
			DefaultUsers:    r.DefaultUsers,
		},
		Synthetic: recommend.SyntheticConfig{
			Users:        r.DefaultUsers,
			Products:     r.DefaultProducts,
			Interactions: r.SyntheticInteractions,
			Seed:         r.Seed,
		},
		Aggregation: recommend.AggregationConfig{
			WeightScale: r.WeightScale,
		},
		Training: recommend.TrainingConfig{
			Verbose:        r.Verbose,
			Timeout:        r.TrainingTimeout,
			RetainVersions: r.RetainVersions,
		},
		Limits: recommend.LimitsConfig{
			DefaultN: r.DefaultN,
			MaxN:     r.MaxN,
		},
		Cache: recommend.CacheConfig{
			Size: r.CacheSize,
			TTL:  r.CacheTTL,
		},
	}
}
