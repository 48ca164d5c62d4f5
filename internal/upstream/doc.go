// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

// Package upstream protects calls to external dependencies with circuit
// breakers (github.com/sony/gobreaker/v2).
//
// Source wraps the interaction store used by the recommendation engine. When
// the store keeps failing the breaker opens and calls fail immediately with
// ErrCircuitOpen; the engine then uses its configured population defaults
// and synthetic training data instead of waiting on FetchTimeout for every
// call. The visual feature extractor client uses a Breaker of its own.
//
// Breaker state, transitions and per-result request counts are exported as
// circuit_breaker_* Prometheus metrics labeled with the breaker name.
package upstream
