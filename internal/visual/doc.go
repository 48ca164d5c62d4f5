// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

// Package visual implements image similarity search over product embeddings.
//
// Embeddings come from an external feature extraction service reached
// through Extractor. Catalog embeddings are computed once per product and
// stored (see database.ProductEmbeddings); a query extracts one embedding
// and ranks the catalog with FindSimilar, which scores by cosine similarity.
// Matches below the configured minimum similarity are dropped. Extractor
// calls are paced by a token bucket and guarded by a circuit breaker.
package visual
