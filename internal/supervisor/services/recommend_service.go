// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/buyonix-recommender/internal/metrics"
	"github.com/tomtom215/buyonix-recommender/internal/recommend"
)

// ModelLifecycle is the part of *recommend.Engine the refresh service drives.
type ModelLifecycle interface {
	Initialize(ctx context.Context, opts recommend.InitOptions) error
	Stats() recommend.Stats
	Model() *recommend.Model
}

var _ ModelLifecycle = (*recommend.Engine)(nil)

// ModelRefreshConfig holds configuration for the model refresh service.
type ModelRefreshConfig struct {
	// InitializeOnStartup runs a lifecycle pass as soon as the service starts.
	InitializeOnStartup bool

	// RefreshInterval is how often drift is re-evaluated. Zero disables
	// periodic refresh; the service then idles until canceled.
	RefreshInterval time.Duration

	// Population overrides the counts used for drift detection.
	Population recommend.InitOptions
}

// ModelRefreshService keeps the engine's model in step with the live
// population. Each pass calls Initialize, which reuses the stored model when
// the population is unchanged and retrains on drift.
type ModelRefreshService struct {
	engine ModelLifecycle
	config ModelRefreshConfig
	logger zerolog.Logger
	name   string

	lastVersion int
}

// NewModelRefreshService creates a new model refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewModelRefreshService(engine ModelLifecycle, cfg ModelRefreshConfig, logger zerolog.Logger) *ModelRefreshService {
	return &ModelRefreshService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "model-refresh").Logger(),
		name:   "model-refresh-service",
	}
}

// Serve implements the suture.Service interface.
// Failed passes are logged and retried on the next tick; the previously
// published model keeps serving meanwhile.
func (s *ModelRefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("initialize_on_startup", s.config.InitializeOnStartup).
		Dur("refresh_interval", s.config.RefreshInterval).
		Msg("model refresh service starting")

	if s.config.InitializeOnStartup {
		if err := s.refresh(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("initial model load failed (will retry on schedule)")
		}
	}

	var tick <-chan time.Time
	if s.config.RefreshInterval > 0 {
		ticker := time.NewTicker(s.config.RefreshInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("model refresh service shutting down")
			return ctx.Err()

		case <-tick:
			s.logger.Debug().Msg("scheduled drift check triggered")
			if err := s.refresh(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled model refresh failed")
			}
		}
	}
}

func (s *ModelRefreshService) refresh(ctx context.Context) error {
	start := time.Now()

	err := s.engine.Initialize(ctx, s.config.Population)
	if errors.Is(err, recommend.ErrTrainingInProgress) {
		s.logger.Debug().Msg("lifecycle run already in progress, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	stats := s.engine.Stats()
	if stats.ModelVersion != s.lastVersion {
		s.lastVersion = stats.ModelVersion
		if stats.DataSource == recommend.SourceStored {
			metrics.ModelLoaded(s.engine.Model())
		}
		s.logger.Info().
			Int("version", stats.ModelVersion).
			Str("source", stats.DataSource).
			Dur("duration", time.Since(start)).
			Msg("active model changed")
	}

	return nil
}

// String returns the service name for logging.
func (s *ModelRefreshService) String() string {
	return s.name
}
