// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package visual

import (
	"math"
	"sort"

	"github.com/tomtom215/buyonix-recommender/internal/recommend/algorithms"
)

// Candidate is a product with a precomputed image embedding.
type Candidate struct {
	ProductID string    `json:"product_id"`
	Embedding []float64 `json:"embedding"`
}

// Match is a product ranked by visual similarity to a query image.
type Match struct {
	ProductID  string  `json:"product_id"`
	Similarity float64 `json:"similarity"`
}

// FindSimilar ranks candidates by cosine similarity to query, highest first,
// and returns at most topN matches. Ties keep candidate order. A zero vector
// or a length mismatch scores 0. topN <= 0 returns every candidate.
func FindSimilar(query []float64, candidates []Candidate, topN int) []Match {
	matches := make([]Match, 0, len(candidates))
	for i := range candidates {
		matches = append(matches, Match{
			ProductID:  candidates[i].ProductID,
			Similarity: algorithms.CosineSimilarity(query, candidates[i].Embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if topN > 0 && len(matches) > topN {
		matches = matches[:topN]
	}
	return matches
}

// FilterMatches drops matches below minSimilarity and rounds the rest to two
// decimals for presentation.
func FilterMatches(matches []Match, minSimilarity float64) []Match {
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Similarity < minSimilarity {
			continue
		}
		m.Similarity = math.Round(m.Similarity*100) / 100
		out = append(out, m)
	}
	return out
}
