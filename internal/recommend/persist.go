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

	"github.com/tomtom215/buyonix-recommender/internal/recommend/storage"
)

// ModelStore persists versioned model states. It is implemented by
// storage.Store and storage.BadgerStore.
type ModelStore interface {
	Save(ctx context.Context, name string, version int, data interface{}, meta storage.ModelMetadata) error
	Load(ctx context.Context, name string, version int, target interface{}) (*storage.ModelMetadata, error)
	GetLatestVersion(name string) (int, bool)
	Delete(ctx context.Context, name string, version int) error
	Prune(ctx context.Context, name string, keepVersions int) error
}

var (
	_ ModelStore = (*storage.Store)(nil)
	_ ModelStore = (*storage.BadgerStore)(nil)
)

// ModelState is the serializable state of a trained Model.
type ModelState struct {
	Factors           int
	UserIDs           []string
	ProductIDs        []string
	UserFactors       [][]float64
	ProductFactors    [][]float64
	SingularValues    []float64
	Ratings           [][]float64
	ExplainedVariance float64
	TotalInteractions int
	TrainedAt         time.Time
}

// State returns the serializable state of a fitted model.
func (m *Model) State() (*ModelState, error) {
	if !m.Fitted() {
		return nil, ErrNotFitted
	}
	return &ModelState{
		Factors:           m.factors,
		UserIDs:           m.userIDs,
		ProductIDs:        m.productIDs,
		UserFactors:       m.userFactors,
		ProductFactors:    m.productFactors,
		SingularValues:    m.singularValues,
		Ratings:           m.ratings.Values,
		ExplainedVariance: m.explainedVariance,
		TotalInteractions: m.totalInteractions,
		TrainedAt:         m.trainedAt,
	}, nil
}

// modelFromState rebuilds a fitted model, rejecting states whose shapes do
// not agree with their id lists.
//
//nolint:gocyclo // every shape needs its own check
func modelFromState(s *ModelState) (*Model, error) {
	nu, np := len(s.UserIDs), len(s.ProductIDs)
	if s.Factors < 1 || nu == 0 || np == 0 {
		return nil, fmt.Errorf("%w: empty model state", storage.ErrCorrupt)
	}
	if len(s.UserFactors) != nu || len(s.ProductFactors) != np || len(s.Ratings) != nu {
		return nil, fmt.Errorf("%w: factor rows do not match id lists", storage.ErrCorrupt)
	}
	for _, row := range s.UserFactors {
		if len(row) != s.Factors {
			return nil, fmt.Errorf("%w: user factor width %d, want %d", storage.ErrCorrupt, len(row), s.Factors)
		}
	}
	for _, row := range s.ProductFactors {
		if len(row) != s.Factors {
			return nil, fmt.Errorf("%w: product factor width %d, want %d", storage.ErrCorrupt, len(row), s.Factors)
		}
	}
	for _, row := range s.Ratings {
		if len(row) != np {
			return nil, fmt.Errorf("%w: ratings width %d, want %d", storage.ErrCorrupt, len(row), np)
		}
	}

	ratings := newMatrix(s.UserIDs, s.ProductIDs)
	if len(ratings.userIndex) != nu || len(ratings.productIndex) != np {
		return nil, fmt.Errorf("%w: duplicate ids", storage.ErrCorrupt)
	}
	for i, row := range s.Ratings {
		copy(ratings.Values[i], row)
	}

	return &Model{
		factors:           s.Factors,
		userIDs:           ratings.UserIDs,
		productIDs:        ratings.ProductIDs,
		userIndex:         ratings.userIndex,
		productIndex:      ratings.productIndex,
		userFactors:       s.UserFactors,
		productFactors:    s.ProductFactors,
		singularValues:    s.SingularValues,
		ratings:           ratings,
		explainedVariance: s.ExplainedVariance,
		totalInteractions: s.TotalInteractions,
		trainedAt:         s.TrainedAt,
		fitted:            true,
	}, nil
}

// SaveModel persists a fitted model under name and version.
// It returns ErrNotFitted for an untrained model.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func SaveModel(ctx context.Context, store ModelStore, name string, version int, m *Model, meta storage.ModelMetadata) error {
	state, err := m.State()
	if err != nil {
		return err
	}

	meta.TrainedAt = m.trainedAt
	meta.InteractionCount = m.totalInteractions
	meta.UserCount = m.NumUsers()
	meta.ProductCount = m.NumProducts()
	meta.Factors = m.factors
	meta.ExplainedVariance = m.explainedVariance

	if err := store.Save(ctx, name, version, state, meta); err != nil {
		return fmt.Errorf("%w: save model: %w", ErrStorage, err)
	}
	return nil
}

// LoadModel loads a model version (0 = latest). It returns ErrModelNotFound
// when nothing is stored and ErrStorage for unreadable or inconsistent data.
func LoadModel(ctx context.Context, store ModelStore, name string, version int) (*Model, *storage.ModelMetadata, error) {
	var state ModelState
	meta, err := store.Load(ctx, name, version, &state)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: %v", ErrModelNotFound, err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: load model: %w", ErrStorage, err)
	}

	m, err := modelFromState(&state)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if meta.Factors != 0 && meta.Factors != m.factors {
		return nil, nil, fmt.Errorf("%w: metadata reports %d factors, state has %d", ErrStorage, meta.Factors, m.factors)
	}

	return m, meta, nil
}
