// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package config

import (
	"time"
)

// Config holds all service configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Visual     VisualConfig     `koanf:"visual"`
	Upstream   UpstreamConfig   `koanf:"upstream"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

type DatabaseConfig struct {
	Path      string `koanf:"path"` // DuckDB file; empty or ":memory:" for an in-memory database
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use runtime.NumCPU()
}

// RecommendConfig holds the recommendation engine and model lifecycle
// settings.
type RecommendConfig struct {
	// ModelPath is the directory (file store) or database path (badger store)
	// where trained models are persisted.
	// Default: /data/models
	ModelPath string `koanf:"model_path"`

	// StoreBackend selects the model store: "file" or "badger".
	// Default: file
	StoreBackend string `koanf:"store_backend"`

	// ModelName is the name under which models are versioned.
	// Default: cf_model
	ModelName string `koanf:"model_name"`

	// Factors is the requested number of latent factors. It is lowered
	// automatically for small populations.
	// Default: 10
	Factors int `koanf:"factors"`

	// MinRealInteractions is the number of aggregated real interactions
	// required before real data is used instead of synthetic data.
	// Default: 10
	MinRealInteractions int `koanf:"min_real_interactions"`

	// FetchTimeout bounds each call to the interaction store.
	// Default: 3s
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// RefreshInterval is how often the refresh service re-checks drift.
	// Zero disables periodic refresh.
	// Default: 1h
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// DefaultProducts and DefaultUsers are the population counts used when
	// the interaction store cannot report them.
	// Default: 45 products, 5 users
	DefaultProducts int `koanf:"default_products"`
	DefaultUsers    int `koanf:"default_users"`

	// SyntheticInteractions is the number of generated records used to
	// bootstrap a model without real data.
	// Default: 3000
	SyntheticInteractions int `koanf:"synthetic_interactions"`

	// Seed makes synthetic data reproducible.
	// Default: 42
	Seed int64 `koanf:"seed"`

	// WeightScale converts an implicit-feedback weight into a strength.
	// Default: 0.5
	WeightScale float64 `koanf:"weight_scale"`

	// TrainingTimeout bounds one lifecycle run.
	// Default: 5m
	TrainingTimeout time.Duration `koanf:"training_timeout"`

	// RetainVersions is the number of persisted model versions to keep.
	// Default: 3
	RetainVersions int `koanf:"retain_versions"`

	// Verbose logs training progress at info level.
	// Default: false
	Verbose bool `koanf:"verbose"`

	// DefaultN and MaxN bound the number of recommendations per request.
	// Default: 5 and 100
	DefaultN int `koanf:"default_n"`
	MaxN     int `koanf:"max_n"`

	// CacheSize is the number of recommendation lists kept per model
	// version. Zero disables the cache.
	// Default: 1024
	CacheSize int `koanf:"cache_size"`

	// CacheTTL bounds how long a cached list is served.
	// Default: 10m
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// VisualConfig configures the visual similarity search.
type VisualConfig struct {
	// Enabled turns on the /api/v1/visual endpoints.
	Enabled bool `koanf:"enabled"`

	// ExtractorURL is the base URL of the feature extraction service.
	ExtractorURL string `koanf:"extractor_url"`

	// Timeout bounds each extraction request.
	Timeout time.Duration `koanf:"timeout"`

	// TopN is the default number of similar products returned.
	TopN int `koanf:"top_n"`

	// MinSimilarity drops matches whose cosine similarity is below it.
	MinSimilarity float64 `koanf:"min_similarity"`

	// RateLimit caps extraction calls per second. Zero disables the limit.
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the number of extraction calls allowed at once.
	RateBurst int `koanf:"rate_burst"`
}

// UpstreamConfig configures the circuit breakers in front of the
// interaction store and the feature extraction service.
type UpstreamConfig struct {
	// MaxRequests is the number of probe requests allowed while half-open.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval is the cyclic period in which closed-state counts are reset.
	Interval time.Duration `koanf:"interval"`

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration `koanf:"timeout"`

	// MinRequests is the number of requests needed before the failure ratio
	// is evaluated.
	MinRequests uint32 `koanf:"min_requests"`

	// FailureRatio opens the breaker once exceeded.
	FailureRatio float64 `koanf:"failure_ratio"`
}

type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// AdminToken, when set, is required as a bearer token on the retrain
	// endpoint.
	AdminToken string `koanf:"admin_token"`
}

type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// SupervisorConfig tunes the suture supervisor tree.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Load loads configuration from defaults, an optional YAML file and the
// environment. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
