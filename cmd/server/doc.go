// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

/*
Package main is the entry point for the Buyonix recommendation server.

The server trains a truncated-SVD collaborative filtering model from
shopper interactions (views, carts, saves, purchases and star ratings)
stored in DuckDB and serves personalized product rankings over a JSON
REST API. When too few real interactions exist, the model is bootstrapped
from reproducible synthetic data sized to the live catalog.

# Application Architecture

The server implements a layered architecture with Suture v4 process supervision:

	RootSupervisor ("buyonix-recommender")
	├── ModelSupervisor ("model-layer")
	│   ├── Model refresh service (initialize, drift check, retrain)
	│   └── Uptime service (app_uptime_seconds)
	└── APISupervisor ("api-layer")
	    ├── Event hub (websocket model lifecycle feed)
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB holding products, users, interactions and embeddings
 4. Model Store: versioned files or BadgerDB
 5. Engine: recommendation engine behind a circuit-broken interaction source
 6. Visual Search (optional): feature extractor client and embedding search
 7. Supervisor Tree: Suture v4 process supervision
 8. HTTP Server: Chi router with middleware stack

The model refresh service runs its first pass on startup. A stored model is
reused when its user and product counts match the catalog; otherwise a new
model is trained and persisted. Until the first model is published the
recommendation endpoints answer 503 MODEL_NOT_READY.

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=8090
	HTTP_HOST=0.0.0.0
	ENVIRONMENT=production

	# Storage
	DUCKDB_PATH=/data/buyonix.duckdb
	MODEL_PATH=/data/models
	MODEL_STORE_BACKEND=file      # file or badger

	# Model
	RECOMMEND_FACTORS=10
	RECOMMEND_MIN_REAL_INTERACTIONS=10
	RECOMMEND_REFRESH_INTERVAL=1h

	# Visual search
	VISUAL_ENABLED=true
	VISUAL_EXTRACTOR_URL=http://127.0.0.1:5001

	# Security
	ADMIN_TOKEN=change-me
	CORS_ORIGINS=https://shop.example.com

Set CONFIG_PATH to load a YAML file instead of ./config.yaml.

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:
  - Stops accepting new connections
  - Waits for in-flight requests (SHUTDOWN_TIMEOUT)
  - Stops the refresh loop; an in-flight training run is canceled
  - Checkpoints and closes DuckDB and the model store

# Example Usage

	export DUCKDB_PATH=./buyonix.duckdb
	export MODEL_PATH=./models
	export LOG_FORMAT=console
	./buyonix-server

	curl localhost:8090/api/v1/recommendations/user/user_1?n=5

Model lifecycle events (model_trained, training_failed, model_drift) are
streamed over a websocket at /api/v1/events to origins listed in CORS_ORIGINS.

# Related Packages

  - internal/recommend: model lifecycle and ranking
  - internal/api: HTTP handlers and router
  - internal/database: DuckDB persistence
  - internal/supervisor: process supervision
*/
package main
