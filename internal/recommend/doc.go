// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

// Package recommend implements collaborative filtering product
// recommendations based on matrix factorization.
//
// # Architecture
//
// Raw shopper interactions flow through a fixed pipeline:
//
//	InteractionSource -> Aggregate -> BuildMatrix -> Model.Fit -> Model.Rank
//	                                                   |
//	                                             ModelStore (persisted state)
//
//   - Aggregate deduplicates raw records per (user, product) pair, keeping
//     the most recent observation, and turns ratings or action weights into
//     a strength in [0, 5].
//   - BuildMatrix builds a dense user-item matrix with sorted id axes and
//     O(1) id -> index maps.
//   - Model.Fit runs a truncated SVD (package algorithms) and learns one
//     latent factor vector per user and per product.
//   - Model.Predict and Model.Rank score pairs by dot product, clipped to
//     [1, 5] and rounded to two decimals.
//
// # Lifecycle
//
// Engine owns the active model. Initialize decides between three paths:
//
//   - a stored model whose user and product counts match the live
//     population is reused as is;
//   - a stored model whose counts differ (drift) is discarded and a new
//     model is trained;
//   - without a stored model a new model is trained.
//
// Training uses real interactions when at least MinRealInteractions remain
// after aggregation, and otherwise deterministic synthetic data sized to
// the live population. Failures of the interaction source never fail
// initialization: counts fall back to the configured defaults and
// interactions to an empty list.
//
// # Concurrency
//
// Models are immutable after Fit. Lifecycle runs build a new model off-lock
// and swap it in, so Recommend, Predict and Stats never block on training.
// Only one lifecycle run may execute at a time; a concurrent run fails with
// ErrTrainingInProgress.
//
// # Errors
//
// Every error wraps one of the sentinels in errors.go. Malformed raw
// records are counted and dropped. Structural problems (empty matrix, bad
// factor count, unfitted model, unreadable stored model) are returned.
// ErrNotFitted from Recommend means "not initialized" and is distinct from
// an empty result for an unknown user.
package recommend
