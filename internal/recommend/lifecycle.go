// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/buyonix-recommender/internal/recommend/algorithms"
	"github.com/tomtom215/buyonix-recommender/internal/recommend/storage"
)

// InitOptions overrides the population counts used for drift detection and
// synthetic bootstrapping. Nil fields are resolved through the interaction
// source.
type InitOptions struct {
	Products *int
	Users    *int
}

// Population is the live user and product count.
type Population struct {
	Products int
	Users    int
}

// Initialize brings the engine to the ready state. A stored model is reused
// when its user and product counts match the live population; otherwise
// (no stored model, or drift) a new model is trained from real interactions
// or, when there are too few, from synthetic data sized to the population.
//
// Every call re-evaluates drift. On failure the previously active model, if
// any, stays in place and the returned error wraps ErrInitialization.
func (e *Engine) Initialize(ctx context.Context, opts InitOptions) error {
	return e.runExclusive(ctx, "initialize", func(ctx context.Context) error {
		pop := e.ResolvePopulation(ctx, opts)

		stored, meta, found, err := e.tryLoad(ctx)
		if err != nil {
			return err
		}

		if found {
			if stored.NumUsers() == pop.Users && stored.NumProducts() == pop.Products {
				e.publish(stored, meta.Version, SourceStored)
				e.logger.Info().
					Int("version", meta.Version).
					Int("users", pop.Users).
					Int("products", pop.Products).
					Msg("loaded stored model")
				return nil
			}

			e.observer.DriftDetected()
			e.logger.Info().
				Int("stored_users", stored.NumUsers()).
				Int("stored_products", stored.NumProducts()).
				Int("users", pop.Users).
				Int("products", pop.Products).
				Msg("population drift detected, retraining")

			if err := e.bootstrap(ctx, pop); err != nil {
				return err
			}
			e.discard(ctx, meta.Version)
			return nil
		}

		return e.bootstrap(ctx, pop)
	})
}

// Retrain trains a new model from the current data regardless of drift and
// then discards the model it replaces. A failed run leaves the store as it
// was.
func (e *Engine) Retrain(ctx context.Context) error {
	return e.runExclusive(ctx, "retrain", func(ctx context.Context) error {
		pop := e.ResolvePopulation(ctx, InitOptions{})

		latest, found := 0, false
		if e.store != nil {
			latest, found = e.store.GetLatestVersion(e.config.ModelName)
		}

		if err := e.bootstrap(ctx, pop); err != nil {
			return err
		}
		if found {
			e.discard(ctx, latest)
		}
		return nil
	})
}

// TrainFrom trains, persists and publishes a model built from the supplied
// raw interactions only. It fails with ErrInput when no usable interaction
// remains after cleaning.
func (e *Engine) TrainFrom(ctx context.Context, raw []RawInteraction) error {
	return e.runExclusive(ctx, "train", func(ctx context.Context) error {
		agg := e.aggregate(raw)
		if len(agg.Interactions) == 0 {
			return fmt.Errorf("%w: no interactions provided", ErrInput)
		}
		return e.train(ctx, agg.Interactions, SourceReal)
	})
}

// TryLoad loads the latest stored model. A missing model is reported as
// (nil, false, nil); unreadable data is an error.
func (e *Engine) TryLoad(ctx context.Context) (*Model, bool, error) {
	m, _, found, err := e.tryLoad(ctx)
	return m, found, err
}

// LoadStored publishes the latest stored model without checking it against
// the live population. It returns an error wrapping ErrModelNotFound when
// nothing has been stored yet.
func (e *Engine) LoadStored(ctx context.Context) error {
	m, meta, found, err := e.tryLoad(ctx)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: train the model first", ErrModelNotFound)
	}
	e.publish(m, meta.Version, SourceStored)
	return nil
}

func (e *Engine) tryLoad(ctx context.Context) (*Model, *storage.ModelMetadata, bool, error) {
	if e.store == nil {
		return nil, nil, false, nil
	}

	m, meta, err := LoadModel(ctx, e.store, e.config.ModelName, 0)
	if errors.Is(err, ErrModelNotFound) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, err
	}

	e.mu.Lock()
	e.highWater = max(e.highWater, meta.Version)
	e.mu.Unlock()

	return m, meta, true, nil
}

// runExclusive runs fn as a lifecycle run: one at a time, bounded by the
// training timeout, with failures wrapped in ErrInitialization.
func (e *Engine) runExclusive(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if !e.trainMu.TryLock() {
		return ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.config.Training.Timeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		e.observer.TrainingFailed(op)
		e.logger.Error().
			Err(err).
			Str("operation", op).
			Dur("duration", time.Since(start)).
			Msg("model lifecycle run failed")
		return fmt.Errorf("%w: %s: %w", ErrInitialization, op, err)
	}
	return nil
}

// ResolvePopulation returns the population counts from opts, falling back to
// the interaction source and then to the configured defaults. Both counts
// are fetched concurrently, each bounded by FetchTimeout.
func (e *Engine) ResolvePopulation(ctx context.Context, opts InitOptions) Population {
	pop := Population{
		Products: e.config.Population.DefaultProducts,
		Users:    e.config.Population.DefaultUsers,
	}

	var g errgroup.Group
	if opts.Products != nil && *opts.Products > 0 {
		pop.Products = *opts.Products
	} else if e.source != nil {
		g.Go(func() error {
			pop.Products = e.countOrDefault(ctx, "count_active_products", e.source.CountActiveProducts, pop.Products)
			return nil
		})
	}
	if opts.Users != nil && *opts.Users > 0 {
		pop.Users = *opts.Users
	} else if e.source != nil {
		g.Go(func() error {
			pop.Users = e.countOrDefault(ctx, "count_users", e.source.CountUsers, pop.Users)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // goroutines never fail, they fall back to defaults

	return pop
}

func (e *Engine) countOrDefault(ctx context.Context, op string, count func(context.Context) (int, error), fallback int) int {
	ctx, cancel := context.WithTimeout(ctx, e.config.FetchTimeout)
	defer cancel()

	n, err := count(ctx)
	if err == nil && n > 0 {
		return n
	}

	e.observer.UpstreamFallback(op)
	event := e.logger.Warn().Str("operation", op).Int("default", fallback)
	if err != nil {
		event = event.Err(fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err))
	} else {
		event = event.Int("reported", n)
	}
	event.Msg("population count unavailable, using default")

	return fallback
}

// fetchInteractions returns raw interactions from the source, or nil when
// the source is missing or fails.
func (e *Engine) fetchInteractions(ctx context.Context) []RawInteraction {
	if e.source == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.FetchTimeout)
	defer cancel()

	raw, err := e.source.FetchInteractions(ctx)
	if err != nil {
		e.observer.UpstreamFallback("fetch_interactions")
		e.logger.Warn().
			Err(fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)).
			Msg("interaction fetch failed, continuing without real data")
		return nil
	}
	return raw
}

// bootstrap trains from real interactions when enough are available and
// from synthetic data otherwise.
func (e *Engine) bootstrap(ctx context.Context, pop Population) error {
	observed := e.aggregate(e.fetchInteractions(ctx))
	if len(observed.Interactions) >= e.config.MinRealInteractions && len(observed.Interactions) > 0 {
		e.logger.Info().
			Int("interactions", len(observed.Interactions)).
			Msg("training from real interactions")
		return e.train(ctx, observed.Interactions, SourceReal)
	}

	e.logger.Info().
		Int("real_interactions", len(observed.Interactions)).
		Int("required", e.config.MinRealInteractions).
		Int("users", pop.Users).
		Int("products", pop.Products).
		Msg("insufficient real interactions, training from synthetic data")

	synthetic := Aggregate(GenerateSynthetic(SyntheticConfig{
		Users:        pop.Users,
		Products:     pop.Products,
		Interactions: e.config.Synthetic.Interactions,
		Seed:         e.config.Synthetic.Seed,
	}), AggregateOptions{WeightScale: e.config.Aggregation.WeightScale})

	return e.train(ctx, synthetic.Interactions, SourceSynthetic)
}

func (e *Engine) aggregate(raw []RawInteraction) AggregateResult {
	res := Aggregate(raw, AggregateOptions{WeightScale: e.config.Aggregation.WeightScale})
	if res.Dropped > 0 {
		e.observer.RecordsDropped(res.Dropped)
		e.logger.Debug().
			Int("dropped", res.Dropped).
			Int("input", res.Input).
			Msg("dropped malformed interaction records")
	}
	return res
}

// train builds the matrix, fits a model, persists it and publishes it.
func (e *Engine) train(ctx context.Context, interactions []Interaction, source string) error {
	start := time.Now()

	matrix, err := BuildMatrix(interactions)
	if err != nil {
		return err
	}

	k := min(e.config.Factors, algorithms.MaxRank(matrix.Rows(), matrix.Cols()))
	if k < 1 {
		return fmt.Errorf("%w: %dx%d matrix is too small to factorize", ErrDimension, matrix.Rows(), matrix.Cols())
	}

	model := NewModel(k)
	if err := model.Fit(ctx, matrix, FitOptions{Logger: e.logger, Verbose: e.config.Training.Verbose}); err != nil {
		return err
	}

	version := e.nextVersion()
	if e.store != nil {
		meta := storage.ModelMetadata{
			DataSource:         source,
			TrainingDurationMS: time.Since(start).Milliseconds(),
		}
		if err := SaveModel(ctx, e.store, e.config.ModelName, version, model, meta); err != nil {
			return err
		}
		if err := e.store.Prune(ctx, e.config.ModelName, e.config.Training.RetainVersions); err != nil {
			e.logger.Warn().Err(err).Msg("failed to prune old model versions")
		}
	}

	e.publish(model, version, source)
	e.observer.TrainingCompleted(source, time.Since(start), model)

	e.logger.Info().
		Int("version", version).
		Str("source", source).
		Int("users", model.NumUsers()).
		Int("products", model.NumProducts()).
		Int("factors", k).
		Float64("explained_variance", model.ExplainedVariance()).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("model training complete")

	return nil
}

func (e *Engine) nextVersion() int {
	e.mu.RLock()
	next := e.highWater + 1
	e.mu.RUnlock()

	if e.store != nil {
		if latest, ok := e.store.GetLatestVersion(e.config.ModelName); ok && latest >= next {
			next = latest + 1
		}
	}
	return next
}

// discard removes a superseded model version. The replacement is already
// stored and published, so a failed delete is only logged.
func (e *Engine) discard(ctx context.Context, version int) {
	if e.store == nil {
		return
	}
	if err := e.store.Delete(ctx, e.config.ModelName, version); err != nil {
		e.logger.Warn().
			Err(fmt.Errorf("%w: discard model v%d: %w", ErrStorage, version, err)).
			Msg("failed to discard superseded model")
	}
}
