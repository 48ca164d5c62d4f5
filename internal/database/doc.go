// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

// Package database is the DuckDB-backed interaction store.
//
// # Overview
//
// The store holds the product catalog, registered users and the raw
// interaction log (views, carts, saves, purchases with optional ratings).
// DB implements recommend.InteractionSource, which is all the recommendation
// engine needs to size its population and read training data.
//
// Files:
//   - database.go: connection lifecycle (open, pool, checkpoint, close)
//   - database_schema.go: tables, sequence and indexes
//   - interactions.go: InteractionSource queries and interaction recording
//   - catalog.go: product and user upserts
//   - embeddings.go: product image embeddings for visual search
//
// # Database Technology
//
// DuckDB via the CGO driver github.com/duckdb/duckdb-go/v2. An empty path or
// ":memory:" opens an in-memory database, which tests use.
//
// # Ordering
//
// FetchInteractions returns records ordered by (created_at, id), which is
// the arrival order the aggregator's last-write-wins rule relies on.
//
// # Thread Safety
//
// DB is safe for concurrent use; database/sql manages the connection pool.
package database
