// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

// Package algorithms implements the numerical kernels behind the
// recommendation engine.
//
// The package works on plain [][]float64 matrices and knows nothing about
// user or product identities; the recommend package owns the mapping from
// identifiers to matrix rows and columns.
//
// # Truncated SVD
//
// TruncatedSVD factorizes a dense user-item matrix X (n x m) with an exact
// thin singular value decomposition (gonum mat.SVD) and keeps the k leading
// components:
//
//	X ~ (U_k * Sigma_k) * V_k^T
//
// User factors are the rows of U_k * Sigma_k and product factors are the
// rows of V_k, so a predicted strength is a single dot product. Zero cells
// are factorized as observed low values rather than masked, which makes the
// model a soft approximation of the observed matrix.
//
// The valid rank range is 1 <= k <= min(n, m) - 1. Outside of it
// TruncatedSVD returns ErrInvalidRank.
//
// Because the decomposition is exact, the result depends only on the input
// matrix. Signs of each component are normalized so repeated runs produce
// bit-identical factors.
//
// # Explained Variance
//
// The reported ratio is the summed population variance of the projected
// components divided by the summed column variance of X.
//
// # Similarity
//
// CosineSimilarity is shared by the visual similarity search, which compares
// image embeddings rather than latent factors.
package algorithms
