// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

/*
Package config loads and validates the recommender service configuration.

# Configuration Sources

Configuration is layered with Koanf v2, later layers overriding earlier ones:
  - Built-in defaults (defaultConfig)
  - Optional YAML file: $CONFIG_PATH, config.yaml, config.yml,
    /etc/buyonix-recommender/config.yaml
  - Environment variables listed below

Unmapped environment variables are ignored.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8090)
  - HTTP_TIMEOUT, SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging, production

Database (interaction store):
  - DUCKDB_PATH (default: /data/buyonix.duckdb)
  - DUCKDB_MAX_MEMORY, DUCKDB_THREADS

Recommendation engine:
  - MODEL_PATH (default: /data/models), MODEL_STORE_BACKEND (file, badger), MODEL_NAME
  - RECOMMEND_FACTORS (default: 10)
  - RECOMMEND_MIN_REAL_INTERACTIONS (default: 10)
  - RECOMMEND_FETCH_TIMEOUT (default: 3s)
  - RECOMMEND_REFRESH_INTERVAL (default: 1h, 0 disables)
  - RECOMMEND_DEFAULT_PRODUCTS, RECOMMEND_DEFAULT_USERS (default: 45, 5)
  - RECOMMEND_SYNTHETIC_INTERACTIONS, RECOMMEND_SEED (default: 3000, 42)
  - RECOMMEND_WEIGHT_SCALE (default: 0.5)
  - RECOMMEND_TRAINING_TIMEOUT, RECOMMEND_RETAIN_VERSIONS, RECOMMEND_VERBOSE
  - RECOMMEND_DEFAULT_N, RECOMMEND_MAX_N (default: 5, 100)
  - RECOMMEND_CACHE_SIZE, RECOMMEND_CACHE_TTL (default: 1024, 10m; size 0 disables)

Visual search:
  - VISUAL_ENABLED, VISUAL_EXTRACTOR_URL, VISUAL_TIMEOUT, VISUAL_TOP_N
  - VISUAL_MIN_SIMILARITY (default: 0.75)
  - VISUAL_RATE_LIMIT, VISUAL_RATE_BURST (default: 10/s, 5; 0 disables)

Circuit breakers:
  - UPSTREAM_MAX_REQUESTS, UPSTREAM_INTERVAL, UPSTREAM_TIMEOUT,
    UPSTREAM_MIN_REQUESTS, UPSTREAM_FAILURE_RATIO

Security:
  - CORS_ORIGINS (comma-separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW,
    DISABLE_RATE_LIMIT, ADMIN_TOKEN

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
