// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/buyonix-recommender/internal/logging"
)

// ErrInvalidInteraction is returned by RecordInteraction for records that
// cannot be stored.
var ErrInvalidInteraction = errors.New("invalid interaction")

// ErrInvalidProduct is returned for catalog entries that are missing or
// have no id.
var ErrInvalidProduct = errors.New("invalid product")

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and ignores the error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() //nolint:errcheck // cleanup is best-effort
	}
}
