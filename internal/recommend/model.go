// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/buyonix-recommender/internal/recommend/algorithms"
)

// Rating bounds applied to every prediction.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// Model is a trained latent-factor model.
//
// A Model is created empty by NewModel and populated exactly once by Fit or by
// loading a persisted state. After that it is never mutated, so any number of
// goroutines may call Predict and Rank concurrently. Retraining builds a new
// Model and replaces the old one.
type Model struct {
	factors int

	userIDs      []string
	productIDs   []string
	userIndex    map[string]int
	productIndex map[string]int

	userFactors    [][]float64
	productFactors [][]float64
	singularValues []float64

	// ratings is the training matrix; its rows drive exclude-rated ranking.
	ratings *Matrix

	explainedVariance float64
	totalInteractions int
	trainedAt         time.Time
	fitted            bool
}

// FitOptions controls a single training run.
type FitOptions struct {
	// Logger receives training progress. The zero value discards output.
	Logger zerolog.Logger

	// Verbose logs progress at info level instead of debug.
	Verbose bool
}

// NewModel creates an unfitted model that will learn the given number of
// latent factors.
func NewModel(factors int) *Model {
	return &Model{factors: factors}
}

// Fit learns latent factors from the matrix with a truncated SVD.
// It returns ErrDimension when the factor count is not in
// [1, min(users, products) - 1]. Fit must not be called on a model that is
// already being served.
//
//nolint:gocritic // opts passed by value is acceptable, it is built per call
func (m *Model) Fit(ctx context.Context, ratings *Matrix, opts FitOptions) error {
	if ratings == nil || ratings.Rows() == 0 || ratings.Cols() == 0 {
		return fmt.Errorf("%w: empty matrix", ErrInput)
	}

	level := zerolog.DebugLevel
	if opts.Verbose {
		level = zerolog.InfoLevel
	}
	opts.Logger.WithLevel(level).
		Int("users", ratings.Rows()).
		Int("products", ratings.Cols()).
		Int("factors", m.factors).
		Float64("sparsity", ratings.Sparsity()).
		Msg("fitting truncated SVD")

	start := time.Now()
	f, err := algorithms.TruncatedSVD(ctx, ratings.Values, m.factors)
	if err != nil {
		if errors.Is(err, algorithms.ErrInvalidRank) {
			return fmt.Errorf("%w: %v", ErrDimension, err)
		}
		return fmt.Errorf("factorize: %w", err)
	}

	snapshot := ratings.clone()
	m.userIDs = snapshot.UserIDs
	m.productIDs = snapshot.ProductIDs
	m.userIndex = snapshot.userIndex
	m.productIndex = snapshot.productIndex
	m.userFactors = f.UserFactors
	m.productFactors = f.ProductFactors
	m.singularValues = f.SingularValues
	m.ratings = snapshot
	m.explainedVariance = f.ExplainedVarianceRatio
	m.totalInteractions = snapshot.NonZero()
	m.trainedAt = time.Now().UTC()
	m.fitted = true

	opts.Logger.WithLevel(level).
		Float64("explained_variance", m.explainedVariance).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("truncated SVD fitted")

	return nil
}

// Fitted reports whether the model has been trained or loaded.
func (m *Model) Fitted() bool { return m != nil && m.fitted }

// Factors returns the number of latent factors.
func (m *Model) Factors() int { return m.factors }

// NumUsers returns the number of users the model was trained on.
func (m *Model) NumUsers() int { return len(m.userIDs) }

// NumProducts returns the number of products the model was trained on.
func (m *Model) NumProducts() int { return len(m.productIDs) }

// TotalInteractions returns the number of observed cells in the training matrix.
func (m *Model) TotalInteractions() int { return m.totalInteractions }

// ExplainedVariance returns the fraction of variance captured by the factors.
func (m *Model) ExplainedVariance() float64 { return m.explainedVariance }

// TrainedAt returns when the model was trained.
func (m *Model) TrainedAt() time.Time { return m.trainedAt }

// ProductIDs returns a copy of the trained product list in column order.
func (m *Model) ProductIDs() []string { return append([]string(nil), m.productIDs...) }

// HasUser reports whether the user was part of the training data.
func (m *Model) HasUser(userID string) bool {
	_, ok := m.userIndex[userID]
	return ok
}

// Predict returns the predicted rating for a user and product, clipped to
// [MinRating, MaxRating] and rounded to two decimals. The boolean is false
// when either id was not part of the training data.
func (m *Model) Predict(userID, productID string) (float64, bool, error) {
	if !m.Fitted() {
		return 0, false, ErrNotFitted
	}

	u, ok := m.userIndex[userID]
	if !ok {
		return 0, false, nil
	}
	p, ok := m.productIndex[productID]
	if !ok {
		return 0, false, nil
	}

	return m.predictAt(u, p), true, nil
}

func (m *Model) predictAt(u, p int) float64 {
	raw := algorithms.Dot(m.userFactors[u], m.productFactors[p])
	return round2(clip(raw, MinRating, MaxRating))
}

// Rank returns up to n products for the user ordered by descending predicted
// rating. Ties keep product list order. When excludeRated is set, products
// the user already interacted with are skipped unless that would leave no
// candidates, in which case every product is ranked. An unknown user yields
// an empty result.
func (m *Model) Rank(userID string, n int, excludeRated bool) ([]Recommendation, error) {
	if !m.Fitted() {
		return nil, ErrNotFitted
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be positive, got %d", ErrInput, n)
	}

	u, ok := m.userIndex[userID]
	if !ok {
		return []Recommendation{}, nil
	}

	candidates := m.candidates(u, excludeRated)

	recs := make([]Recommendation, 0, len(candidates))
	for _, p := range candidates {
		recs = append(recs, Recommendation{
			ProductID:       m.productIDs[p],
			PredictedRating: m.predictAt(u, p),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].PredictedRating > recs[j].PredictedRating
	})

	if len(recs) > n {
		recs = recs[:n]
	}
	return recs, nil
}

// candidates returns the product columns to score for user row u.
func (m *Model) candidates(u int, excludeRated bool) []int {
	all := make([]int, len(m.productIDs))
	for p := range all {
		all[p] = p
	}
	if !excludeRated {
		return all
	}

	row := m.ratings.Values[u]
	unrated := make([]int, 0, len(all))
	for _, p := range all {
		if row[p] == 0 {
			unrated = append(unrated, p)
		}
	}
	if len(unrated) == 0 {
		return all
	}
	return unrated
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
