// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package config

import (
	"testing"
	"time"
)

func TestRecommendConfig_EngineConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Recommend.Factors = 7
	cfg.Recommend.DefaultUsers = 12
	cfg.Recommend.DefaultProducts = 30
	cfg.Recommend.Seed = 99
	cfg.Recommend.TrainingTimeout = time.Minute

	ec := cfg.Recommend.EngineConfig()
	if err := ec.Validate(); err != nil {
		t.Fatalf("EngineConfig() from defaults is invalid: %v", err)
	}

	if ec.Factors != 7 {
		t.Errorf("Factors = %d, want 7", ec.Factors)
	}
	if ec.Population.DefaultUsers != 12 || ec.Synthetic.Users != 12 {
		t.Errorf("users = %d/%d, want 12", ec.Population.DefaultUsers, ec.Synthetic.Users)
	}
	if ec.Population.DefaultProducts != 30 || ec.Synthetic.Products != 30 {
		t.Errorf("products = %d/%d, want 30", ec.Population.DefaultProducts, ec.Synthetic.Products)
	}
	if ec.Synthetic.Seed != 99 {
		t.Errorf("Seed = %d, want 99", ec.Synthetic.Seed)
	}
	if ec.Training.Timeout != time.Minute {
		t.Errorf("Training.Timeout = %v, want 1m", ec.Training.Timeout)
	}
	if ec.Limits.DefaultN != 5 || ec.Limits.MaxN != 100 {
		t.Errorf("Limits = %+v, want 5/100", ec.Limits)
	}
	if ec.Cache.Size != 1024 || ec.Cache.TTL != 10*time.Minute {
		t.Errorf("Cache = %+v, want 1024 entries for 10m", ec.Cache)
	}
}
