// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

/*
Package websocket streams model lifecycle events to connected clients.

Dashboards and storefront admin tools connect to GET /api/v1/events and
receive a JSON message whenever the recommendation engine publishes a new
model, fails a training run, or detects that the stored model no longer
matches the live population. It uses gorilla/websocket with a hub and client
design.

Key Components:

  - Hub: owns the client set and fans messages out; runs under the supervisor
  - Client: one connection with a read pump (pings, disconnects) and a write
    pump (events, keepalive pings)
  - EngineEvents: a recommend.Observer that turns engine events into messages

Message Types:

  - model_trained: a model was fitted and published (data source, duration,
    dimensions, explained variance)
  - training_failed: a lifecycle run failed (reason)
  - model_drift: the stored model was discarded because the population changed
  - pong: reply to a client {"type":"ping"}

Example message:

	{"type":"model_trained","data":{"timestamp":"2026-03-01T12:00:00Z",
	 "data_source":"real","duration_ms":42,"n_users":120,"n_products":45,
	 "n_factors":10,"total_interactions":3100,"explained_variance":0.61}}

Usage:

	hub := websocket.NewHub()
	tree.AddAPIService(services.NewEventHubService(hub))
	engine.SetObserver(recommend.Observers(metrics.EngineObserver{}, websocket.NewEngineEvents(hub)))

Delivery is best effort. Broadcasts never block the engine: when the hub queue
is full the message is dropped, and a client whose send buffer is full is
disconnected.
*/
package websocket
