// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package upstream

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/buyonix-recommender/internal/config"
	"github.com/tomtom215/buyonix-recommender/internal/logging"
	"github.com/tomtom215/buyonix-recommender/internal/recommend"
)

var (
	// ErrCircuitOpen is returned while the breaker rejects calls.
	ErrCircuitOpen = errors.New("circuit open")

	// ErrRejected marks a well-formed refusal by a healthy dependency, such as
	// an unreadable input. Breakers count it as a successful call.
	ErrRejected = errors.New("rejected by upstream")
)

// SourceBreakerName labels the interaction store breaker.
const SourceBreakerName = "interaction-store"

// Source wraps a recommend.InteractionSource with a circuit breaker, so an
// unavailable store fails fast and the engine falls back to its defaults.
type Source struct {
	source  recommend.InteractionSource
	breaker *Breaker
}

var _ recommend.InteractionSource = (*Source)(nil)

// NewSource wraps source with a breaker configured from cfg.
func NewSource(source recommend.InteractionSource, cfg *config.UpstreamConfig) *Source {
	return &Source{
		source:  source,
		breaker: NewBreaker(SourceBreakerName, cfg),
	}
}

// Breaker exposes the underlying breaker for health reporting.
func (s *Source) Breaker() *Breaker { return s.breaker }

// CountActiveProducts returns the active product count with circuit breaker protection
func (s *Source) CountActiveProducts(ctx context.Context) (int, error) {
	return castResult[int](s.call(ctx, "count_active_products", func(ctx context.Context) (interface{}, error) {
		return s.source.CountActiveProducts(ctx)
	}))
}

// CountUsers returns the user count with circuit breaker protection
func (s *Source) CountUsers(ctx context.Context) (int, error) {
	return castResult[int](s.call(ctx, "count_users", func(ctx context.Context) (interface{}, error) {
		return s.source.CountUsers(ctx)
	}))
}

// FetchInteractions returns the interaction log with circuit breaker protection
func (s *Source) FetchInteractions(ctx context.Context) ([]recommend.RawInteraction, error) {
	return castResult[[]recommend.RawInteraction](s.call(ctx, "fetch_interactions", func(ctx context.Context) (interface{}, error) {
		return s.source.FetchInteractions(ctx)
	}))
}

// call runs fn through the breaker. A context that is already done is
// reported without counting against the dependency.
func (s *Source) call(ctx context.Context, op string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return fn(ctx)
	})

	logging.Debug().
		Str("operation", op).
		Int64("duration_ms", sinceMillis(start)).
		Bool("ok", err == nil).
		Msg("interaction store call")

	return result, err
}
