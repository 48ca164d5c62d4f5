// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

// Package query builds parameterized WHERE clauses for the interaction
// store. All values are bound as arguments; only column names are
// interpolated, and those come from code.
package query
