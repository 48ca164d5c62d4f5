// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package recommend

import (
	"errors"
	"fmt"
)

// Error taxonomy for the recommendation engine. Callers match with errors.Is;
// every error returned by this package wraps exactly one of these.
var (
	// ErrInput reports structurally unusable input, such as an empty
	// interaction set or a non-positive result count.
	ErrInput = errors.New("invalid input")

	// ErrDimension reports a latent factor count outside the bounds allowed
	// by the matrix shape.
	ErrDimension = errors.New("invalid factor dimension")

	// ErrNotFitted reports use of a model (or engine) before training.
	ErrNotFitted = errors.New("model not fitted")

	// ErrStorage reports a missing, corrupt or unreadable persisted model.
	ErrStorage = errors.New("model storage error")

	// ErrModelNotFound is the storage error for "nothing persisted yet".
	ErrModelNotFound = fmt.Errorf("%w: model not found", ErrStorage)

	// ErrUpstreamUnavailable reports that the interaction store or the
	// population-count source could not be reached. The engine degrades to
	// documented defaults instead of propagating it.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrInitialization wraps any failure of the lifecycle manager.
	ErrInitialization = errors.New("recommendation engine initialization failed")

	// ErrTrainingInProgress is returned when a lifecycle run is already active.
	ErrTrainingInProgress = errors.New("training already in progress")
)
