// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/buyonix-recommender/config.yaml",
	"/etc/buyonix-recommender/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8090,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/buyonix.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Recommend: RecommendConfig{
			ModelPath:             "/data/models",
			StoreBackend:          "file",
			ModelName:             "cf_model",
			Factors:               10,
			MinRealInteractions:   10,
			FetchTimeout:          3 * time.Second,
			RefreshInterval:       time.Hour,
			DefaultProducts:       45,
			DefaultUsers:          5,
			SyntheticInteractions: 3000,
			Seed:                  42,
			WeightScale:           0.5,
			TrainingTimeout:       5 * time.Minute,
			RetainVersions:        3,
			Verbose:               false,
			DefaultN:              5,
			MaxN:                  100,
			CacheSize:             1024,
			CacheTTL:              10 * time.Minute,
		},
		Visual: VisualConfig{
			Enabled:       false,
			ExtractorURL:  "http://127.0.0.1:5001",
			Timeout:       10 * time.Second,
			TopN:          10,
			MinSimilarity: 0.75,
			RateLimit:     10,
			RateBurst:     5,
		},
		Upstream: UpstreamConfig{
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			MinRequests:  5,
			FailureRatio: 0.6,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			AdminToken:        "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in defaults
//  2. Config File: optional YAML config file (if exists)
//  3. Environment Variables: override any mapped setting
//
// Precedence is ENV > File > Defaults. The result is validated.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// RECOMMEND_FACTORS -> recommend.factors, HTTP_PORT -> server.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, preferring
// CONFIG_PATH, or "" if there is none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values (from env vars)
// to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Recommendation engine
	"model_path":                       "recommend.model_path",
	"model_store_backend":              "recommend.store_backend",
	"model_name":                       "recommend.model_name",
	"recommend_factors":                "recommend.factors",
	"recommend_min_real_interactions":  "recommend.min_real_interactions",
	"recommend_fetch_timeout":          "recommend.fetch_timeout",
	"recommend_refresh_interval":       "recommend.refresh_interval",
	"recommend_default_products":       "recommend.default_products",
	"recommend_default_users":          "recommend.default_users",
	"recommend_synthetic_interactions": "recommend.synthetic_interactions",
	"recommend_seed":                   "recommend.seed",
	"recommend_weight_scale":           "recommend.weight_scale",
	"recommend_training_timeout":       "recommend.training_timeout",
	"recommend_retain_versions":        "recommend.retain_versions",
	"recommend_verbose":                "recommend.verbose",
	"recommend_default_n":              "recommend.default_n",
	"recommend_max_n":                  "recommend.max_n",
	"recommend_cache_size":             "recommend.cache_size",
	"recommend_cache_ttl":              "recommend.cache_ttl",

	// Visual search
	"visual_enabled":        "visual.enabled",
	"visual_extractor_url":  "visual.extractor_url",
	"visual_timeout":        "visual.timeout",
	"visual_top_n":          "visual.top_n",
	"visual_min_similarity": "visual.min_similarity",
	"visual_rate_limit":     "visual.rate_limit",
	"visual_rate_burst":     "visual.rate_burst",

	// Circuit breakers
	"upstream_max_requests":  "upstream.max_requests",
	"upstream_interval":      "upstream.interval",
	"upstream_timeout":       "upstream.timeout",
	"upstream_min_requests":  "upstream.min_requests",
	"upstream_failure_ratio": "upstream.failure_ratio",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"admin_token":         "security.admin_token",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Supervisor
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config
// paths. Unmapped variables return "" and are skipped so unrelated
// environment variables never leak into the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - RECOMMEND_FACTORS -> recommend.factors
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
