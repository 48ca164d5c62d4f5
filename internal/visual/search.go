// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package visual

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// CandidateSource lists products with stored image embeddings.
type CandidateSource interface {
	ProductEmbeddings(ctx context.Context) ([]Candidate, error)
}

// Searcher answers "find products that look like this image" queries.
type Searcher struct {
	extractor     FeatureExtractor
	candidates    CandidateSource
	topN          int
	minSimilarity float64
	logger        zerolog.Logger
}

// SearchOptions overrides the searcher defaults for one query.
type SearchOptions struct {
	// TopN caps the result size; 0 selects the configured default.
	TopN int

	// Candidates replaces the stored catalog embeddings when non-empty.
	Candidates []Candidate
}

// NewSearcher creates a searcher. candidates may be nil, in which case every
// query must supply its own candidates.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSearcher(extractor FeatureExtractor, candidates CandidateSource, topN int, minSimilarity float64, logger zerolog.Logger) *Searcher {
	return &Searcher{
		extractor:     extractor,
		candidates:    candidates,
		topN:          topN,
		minSimilarity: minSimilarity,
		logger:        logger.With().Str("component", "visual").Logger(),
	}
}

// Search extracts the embedding of image and returns the closest candidates
// above the similarity threshold.
//
//nolint:gocritic // opts passed by value is acceptable, it is built per call
func (s *Searcher) Search(ctx context.Context, image string, opts SearchOptions) ([]Match, error) {
	topN := opts.TopN
	if topN <= 0 {
		topN = s.topN
	}

	candidates := opts.Candidates
	if len(candidates) == 0 {
		if s.candidates == nil {
			return []Match{}, nil
		}
		var err error
		candidates, err = s.candidates.ProductEmbeddings(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load product embeddings: %w", err)
		}
	}
	if len(candidates) == 0 {
		return []Match{}, nil
	}

	query, err := s.extractor.Extract(ctx, image)
	if err != nil {
		return nil, err
	}

	matches := FilterMatches(FindSimilar(query, candidates, topN), s.minSimilarity)

	s.logger.Debug().
		Int("candidates", len(candidates)).
		Int("dimensions", len(query)).
		Int("matches", len(matches)).
		Msg("visual search complete")

	return matches, nil
}

// Embed extracts the embedding of a product image so it can be stored.
func (s *Searcher) Embed(ctx context.Context, image string) ([]float64, error) {
	return s.extractor.Extract(ctx, image)
}
