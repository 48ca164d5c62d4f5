// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/buyonix-recommender/internal/config"
	"github.com/tomtom215/buyonix-recommender/internal/upstream"
	"github.com/tomtom215/buyonix-recommender/internal/visual"
)

// extractorProbeTimeout bounds the startup health probe of the extractor.
const extractorProbeTimeout = 5 * time.Second

// VisualComponents holds the visual similarity search components.
type VisualComponents struct {
	Searcher *visual.Searcher
	Breaker  *upstream.Breaker
}

// initVisual builds the visual similarity searcher on top of the stored
// product embeddings. Returns nil if visual search is disabled in config.
// An unreachable extractor is logged but not fatal; the breaker guards later
// calls.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initVisual(ctx context.Context, cfg *config.Config, candidates visual.CandidateSource, logger zerolog.Logger) *VisualComponents {
	if !cfg.Visual.Enabled {
		logger.Info().Msg("Visual search disabled (VISUAL_ENABLED=false)")
		return nil
	}

	extractor := visual.NewExtractor(&cfg.Visual, &cfg.Upstream)

	probeCtx, cancel := context.WithTimeout(ctx, extractorProbeTimeout)
	defer cancel()
	if err := extractor.Health(probeCtx); err != nil {
		logger.Warn().Err(err).Str("url", cfg.Visual.ExtractorURL).Msg("Feature extractor not reachable (will retry on demand)")
	} else {
		logger.Info().Str("url", cfg.Visual.ExtractorURL).Msg("Connected to feature extractor")
	}

	searcher := visual.NewSearcher(extractor, candidates, cfg.Visual.TopN, cfg.Visual.MinSimilarity, logger)

	logger.Info().
		Int("top_n", cfg.Visual.TopN).
		Float64("min_similarity", cfg.Visual.MinSimilarity).
		Msg("Visual search initialized")

	return &VisualComponents{
		Searcher: searcher,
		Breaker:  extractor.Breaker(),
	}
}
