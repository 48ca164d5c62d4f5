// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// ModelName is the name under which models are persisted.
	// Default: "cf_model".
	ModelName string `json:"model_name"`

	// Factors is the requested number of latent factors. The lifecycle
	// manager lowers it to min(users, products) - 1 for small matrices.
	// Default: 10.
	Factors int `json:"factors"`

	// MinRealInteractions is the number of aggregated real interactions
	// required before real data is preferred over synthetic data.
	// Default: 10.
	MinRealInteractions int `json:"min_real_interactions"`

	// FetchTimeout bounds every call to the interaction store.
	// Default: 3s.
	FetchTimeout time.Duration `json:"fetch_timeout"`

	// Population contains the fallback population counts.
	Population PopulationConfig `json:"population"`

	// Synthetic contains parameters for bootstrap data generation.
	Synthetic SyntheticConfig `json:"synthetic"`

	// Aggregation contains raw interaction cleaning parameters.
	Aggregation AggregationConfig `json:"aggregation"`

	// Training contains training parameters.
	Training TrainingConfig `json:"training"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains recommendation cache settings.
	Cache CacheConfig `json:"cache"`
}

// PopulationConfig holds the counts used when the interaction store cannot
// report them.
type PopulationConfig struct {
	// DefaultProducts is used when the product count is unavailable or zero.
	// Default: 45.
	DefaultProducts int `json:"default_products"`

	// DefaultUsers is used when the user count is unavailable or zero.
	// Default: 5.
	DefaultUsers int `json:"default_users"`
}

// AggregationConfig contains parameters for turning raw records into strengths.
type AggregationConfig struct {
	// WeightScale converts an implicit-feedback weight into a strength when no
	// explicit rating is present. Default: 0.5 (weight/2).
	WeightScale float64 `json:"weight_scale"`
}

// TrainingConfig contains training parameters.
type TrainingConfig struct {
	// Verbose logs training progress at info level instead of debug.
	// Default: false.
	Verbose bool `json:"verbose"`

	// Timeout is the maximum time allowed for one lifecycle run.
	// Default: 5m.
	Timeout time.Duration `json:"timeout"`

	// RetainVersions is the number of model versions kept in the store.
	// Default: 3.
	RetainVersions int `json:"retain_versions"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultN is the default number of recommendations to return.
	// Default: 5.
	DefaultN int `json:"default_n"`

	// MaxN is the maximum allowed number of recommendations.
	// Default: 100.
	MaxN int `json:"max_n"`
}

// CacheConfig contains recommendation cache settings.
type CacheConfig struct {
	// Size is the maximum number of cached recommendation lists.
	// Zero disables caching. Default: 1024.
	Size int `json:"size"`

	// TTL is how long a cached list stays valid. Publishing a new model
	// invalidates every entry regardless. Default: 10m.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns a Config with the production defaults.
func DefaultConfig() *Config {
	return &Config{
		ModelName:           "cf_model",
		Factors:             10,
		MinRealInteractions: 10,
		FetchTimeout:        3 * time.Second,
		Population: PopulationConfig{
			DefaultProducts: 45,
			DefaultUsers:    5,
		},
		Synthetic: SyntheticConfig{
			Users:        5,
			Products:     45,
			Interactions: 3000,
			Seed:         42,
		},
		Aggregation: AggregationConfig{
			WeightScale: 0.5,
		},
		Training: TrainingConfig{
			Verbose:        false,
			Timeout:        5 * time.Minute,
			RetainVersions: 3,
		},
		Limits: LimitsConfig{
			DefaultN: 5,
			MaxN:     100,
		},
		Cache: CacheConfig{
			Size: 1024,
			TTL:  10 * time.Minute,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("model_name must not be empty")
	}
	if c.Factors < 1 {
		return fmt.Errorf("factors must be positive, got %d", c.Factors)
	}
	if c.MinRealInteractions < 0 {
		return fmt.Errorf("min_real_interactions must be non-negative, got %d", c.MinRealInteractions)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %v", c.FetchTimeout)
	}

	if c.Population.DefaultProducts < 1 {
		return fmt.Errorf("population.default_products must be positive, got %d", c.Population.DefaultProducts)
	}
	if c.Population.DefaultUsers < 1 {
		return fmt.Errorf("population.default_users must be positive, got %d", c.Population.DefaultUsers)
	}

	if c.Synthetic.Interactions < 1 {
		return fmt.Errorf("synthetic.interactions must be positive, got %d", c.Synthetic.Interactions)
	}

	if c.Aggregation.WeightScale <= 0 {
		return fmt.Errorf("aggregation.weight_scale must be positive, got %f", c.Aggregation.WeightScale)
	}

	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	if c.Training.RetainVersions < 1 {
		return fmt.Errorf("training.retain_versions must be positive, got %d", c.Training.RetainVersions)
	}

	if c.Limits.DefaultN < 1 {
		return fmt.Errorf("limits.default_n must be positive, got %d", c.Limits.DefaultN)
	}
	if c.Limits.MaxN < c.Limits.DefaultN {
		return fmt.Errorf("limits.max_n must be >= limits.default_n, got %d < %d", c.Limits.MaxN, c.Limits.DefaultN)
	}

	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size must not be negative, got %d", c.Cache.Size)
	}
	if c.Cache.Size > 0 && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when caching is enabled, got %v", c.Cache.TTL)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}
