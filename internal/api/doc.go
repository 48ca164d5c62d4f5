// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

/*
Package api provides the HTTP REST API layer for the recommender.

It exposes the long-lived recommendation engine, the interaction store and
the optional visual search service over a Chi router. Handlers depend on
small interfaces (RecommendEngine, InteractionStore, VisualSearcher) rather
than concrete types, so tests drive them with hand-written mocks.

Key Components:

  - Router: route tree and middleware stack (SetupChi)
  - Handler: request handlers split by concern across handlers_*.go
  - ResponseWriter: the {success, data, error, meta} JSON envelope
  - ChiMiddleware: CORS, per-group rate limiting and the admin token check

Endpoints:

	GET  /api/v1/health                      summary (always 200)
	GET  /api/v1/health/live                 liveness probe
	GET  /api/v1/health/ready                readiness probe (503 until a model is loaded)
	GET  /api/v1/recommendations/user/{id}   top-N products (?n=)
	GET  /api/v1/recommendations/predict     single prediction (?user=&product=)
	GET  /api/v1/recommendations/stats       model statistics
	POST /api/v1/recommendations/retrain     force a retrain (admin)
	POST /api/v1/interactions                record interactions
	GET  /api/v1/interactions                list interactions (admin)
	PUT  /api/v1/products/{id}               upsert a catalog product (admin)
	GET  /api/v1/performance                 recent latency percentiles (admin)
	POST /api/v1/visual/similar              image similarity search
	POST /api/v1/visual/products/{id}/embedding  store a product embedding (admin)
	GET  /metrics                            Prometheus scrape endpoint

Error Mapping:

An untrained model answers 503 MODEL_NOT_READY, which is distinct from an
empty recommendation list for an unknown user. A retrain that collides with
a running one answers 409 TRAINING_IN_PROGRESS. Validation failures answer
400 VALIDATION_ERROR with per-field details.

Usage Example:

	handler := api.NewHandler(engine, db, cfg,
	    api.WithVisualSearch(searcher),
	    api.WithBreakers(source.Breaker(), extractor.Breaker()),
	)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)))
	server := &http.Server{Addr: ":8080", Handler: router.SetupChi()}
*/
package api
