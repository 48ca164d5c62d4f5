// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package recommend

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/buyonix-recommender/internal/cache"
)

// Note: Apart from its own subpackages this package only imports
// internal/cache. The InteractionSource and Observer interfaces allow
// integration with the database and metrics packages without import cycles.

// Data source labels reported in Stats and to the Observer.
const (
	SourceReal      = "real"
	SourceSynthetic = "synthetic"
	SourceStored    = "stored"
)

// Engine owns the active recommendation model and its lifecycle.
// It is safe for concurrent use: any number of Recommend, Predict and Stats
// calls may run while a lifecycle run builds a replacement model.
type Engine struct {
	config   *Config
	source   InteractionSource
	store    ModelStore
	logger   zerolog.Logger
	observer Observer

	// trainMu serializes lifecycle runs (Initialize, Retrain, TrainFrom).
	trainMu sync.Mutex

	// mu guards the published model and its bookkeeping.
	mu         sync.RWMutex
	model      *Model
	version    int
	dataSource string

	// highWater is the largest model version seen, so versions keep
	// increasing after a stored model is discarded.
	highWater int

	// recs memoizes ranked lists; nil when caching is disabled.
	recs *cache.LRU[[]Recommendation]
}

// Observer receives engine events, typically to record metrics.
// Implementations must be safe for concurrent use.
type Observer interface {
	// TrainingCompleted is called after a model was fitted and published.
	TrainingCompleted(source string, duration time.Duration, m *Model)

	// TrainingFailed is called when a lifecycle run fails.
	TrainingFailed(reason string)

	// DriftDetected is called when a stored model no longer matches the
	// live population.
	DriftDetected()

	// UpstreamFallback is called when an adapter call failed and a default
	// was used instead.
	UpstreamFallback(operation string)

	// RecordsDropped is called with the number of malformed raw records.
	RecordsDropped(n int)

	// RecommendationServed is called after each Recommend call.
	RecommendationServed(duration time.Duration, count int, err error)
}

// NopObserver ignores all events.
type NopObserver struct{}

// TrainingCompleted implements Observer.
func (NopObserver) TrainingCompleted(string, time.Duration, *Model) {}

// TrainingFailed implements Observer.
func (NopObserver) TrainingFailed(string) {}

// DriftDetected implements Observer.
func (NopObserver) DriftDetected() {}

// UpstreamFallback implements Observer.
func (NopObserver) UpstreamFallback(string) {}

// RecordsDropped implements Observer.
func (NopObserver) RecordsDropped(int) {}

// RecommendationServed implements Observer.
func (NopObserver) RecommendationServed(time.Duration, int, error) {}

// Observers combines several observers into one that notifies each in order.
func Observers(observers ...Observer) Observer {
	return multiObserver(observers)
}

type multiObserver []Observer

func (m multiObserver) TrainingCompleted(source string, d time.Duration, model *Model) {
	for _, o := range m {
		o.TrainingCompleted(source, d, model)
	}
}

func (m multiObserver) TrainingFailed(reason string) {
	for _, o := range m {
		o.TrainingFailed(reason)
	}
}

func (m multiObserver) DriftDetected() {
	for _, o := range m {
		o.DriftDetected()
	}
}

func (m multiObserver) UpstreamFallback(operation string) {
	for _, o := range m {
		o.UpstreamFallback(operation)
	}
}

func (m multiObserver) RecordsDropped(n int) {
	for _, o := range m {
		o.RecordsDropped(n)
	}
}

func (m multiObserver) RecommendationServed(d time.Duration, count int, err error) {
	for _, o := range m {
		o.RecommendationServed(d, count, err)
	}
}

// NewEngine creates a recommendation engine. source may be nil, in which
// case population counts fall back to the configured defaults and training
// always uses synthetic data. store may be nil, in which case models live
// only in memory.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source InteractionSource, store ModelStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:   cfg.Clone(),
		source:   source,
		store:    store,
		logger:   logger.With().Str("component", "recommend").Logger(),
		observer: NopObserver{},
	}
	if cfg.Cache.Size > 0 {
		e.recs = cache.NewLRU[[]Recommendation](cfg.Cache.Size, cfg.Cache.TTL)
	}
	return e, nil
}

// SetObserver sets the event observer. A nil observer disables events.
func (e *Engine) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	e.observer = o
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Model returns the active model, or nil before initialization.
func (e *Engine) Model() *Model {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model
}

// Ready reports whether a model is available for predictions.
func (e *Engine) Ready() bool {
	return e.Model().Fitted()
}

// Recommend returns up to n products for the user, excluding products the
// user already interacted with. n == 0 selects the configured default and
// values above the configured maximum are capped. It returns ErrNotFitted
// before the engine is initialized; an unknown user yields an empty slice.
func (e *Engine) Recommend(ctx context.Context, userID string, n int) ([]Recommendation, error) {
	start := time.Now()

	recs, err := e.recommend(userID, n)
	e.observer.RecommendationServed(time.Since(start), len(recs), err)

	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("user_id", userID).
		Int("n", n).
		Int("returned", len(recs)).
		Dur("latency", time.Since(start)).
		Msg("recommendations served")

	return recs, nil
}

func (e *Engine) recommend(userID string, n int) ([]Recommendation, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: n must not be negative, got %d", ErrInput, n)
	}
	if n == 0 {
		n = e.config.Limits.DefaultN
	}
	if n > e.config.Limits.MaxN {
		n = e.config.Limits.MaxN
	}

	e.mu.RLock()
	m, version := e.model, e.version
	e.mu.RUnlock()
	if !m.Fitted() {
		return nil, ErrNotFitted
	}

	if e.recs == nil {
		return m.Rank(userID, n, true)
	}

	key := strconv.Itoa(version) + "|" + strconv.Itoa(n) + "|" + userID
	if cached, ok := e.recs.Get(key); ok {
		return copyRecommendations(cached), nil
	}

	recs, err := m.Rank(userID, n, true)
	if err != nil {
		return nil, err
	}
	e.recs.Add(key, copyRecommendations(recs))
	return recs, nil
}

func copyRecommendations(recs []Recommendation) []Recommendation {
	out := make([]Recommendation, len(recs))
	copy(out, recs)
	return out
}

// CacheStats reports the recommendation cache counters. It returns the zero
// value when caching is disabled.
func (e *Engine) CacheStats() cache.Stats {
	if e.recs == nil {
		return cache.Stats{}
	}
	return e.recs.Stats()
}

// Predict returns the predicted rating for a user and product. The boolean
// is false when either id is unknown to the active model.
func (e *Engine) Predict(ctx context.Context, userID, productID string) (float64, bool, error) {
	m := e.Model()
	if !m.Fitted() {
		return 0, false, ErrNotFitted
	}
	return m.Predict(userID, productID)
}

// Stats summarizes the active model.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	m, version, source := e.model, e.version, e.dataSource
	e.mu.RUnlock()

	if !m.Fitted() {
		return Stats{Status: StatusNotTrained}
	}

	return Stats{
		Status:            StatusTrained,
		TrainingDate:      m.TrainedAt(),
		NUsers:            m.NumUsers(),
		NProducts:         m.NumProducts(),
		NFactors:          m.Factors(),
		TotalInteractions: m.TotalInteractions(),
		ExplainedVariance: m.ExplainedVariance(),
		Description:       modelDescription,
		ModelVersion:      version,
		DataSource:        source,
	}
}

// publish swaps in a new model.
func (e *Engine) publish(m *Model, version int, source string) {
	e.mu.Lock()
	e.model = m
	e.version = version
	e.dataSource = source
	e.highWater = max(e.highWater, version)
	e.mu.Unlock()

	if e.recs != nil {
		e.recs.Clear()
	}
}
