// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

/*
Package services provides suture.Service wrappers for the recommender's
long-running components.

# Available Services

ModelRefreshService:
  - Runs recommend.Engine.Initialize on startup and every RefreshInterval
  - Reuses the stored model while the population is unchanged, retrains on drift
  - Skips a tick when another lifecycle run holds the engine

HTTPServerService:
  - Wraps *http.Server (ListenAndServe/Shutdown) in suture's Serve pattern
  - Drains connections within a configurable shutdown timeout

UptimeService:
  - Refreshes the uptime gauge on a fixed interval

EventHubService:
  - Runs the websocket hub that streams model lifecycle events
  - Closes all client connections on shutdown

Every service implements fmt.Stringer so supervisor events name it.
*/
package services
