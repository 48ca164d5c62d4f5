// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/buyonix-recommender/internal/logging"
	"github.com/tomtom215/buyonix-recommender/internal/recommend"
	"github.com/tomtom215/buyonix-recommender/internal/validation"
)

// maxRequestBodySize bounds JSON request bodies. Visual search bodies carry
// base64 images, so the limit is generous.
const maxRequestBodySize = 16 << 20

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or an APIError with the VALIDATION_ERROR
// code if it fails.
//
// Example:
//
//	req := RecommendationsRequest{UserID: chi.URLParam(r, "userID"), N: n}
//	if apiErr := validateRequest(&req); apiErr != nil {
//	    NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
//	    return
//	}
func validateRequest(v interface{}) *APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// decodeJSON reads a size-limited JSON body into dst. The returned error is
// suitable for a 400 response.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("request body is required")
		default:
			return fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	return nil
}

// getIntParam extracts an integer query parameter with a default value.
// ok is false when the parameter is present but not an integer.
func getIntParam(r *http.Request, key string, defaultValue int) (value int, ok bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, true
	}

	intValue, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultValue, false
	}
	return intValue, true
}

// parseCommaSeparated parses a comma-separated string into a slice
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}

	var result []string
	parts := strings.Split(value, ",")
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// respondEngineError maps recommendation engine errors to API responses.
func respondEngineError(rw *ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrInput), errors.Is(err, recommend.ErrDimension):
		rw.BadRequest(err.Error())
	case errors.Is(err, recommend.ErrNotFitted):
		rw.ServiceUnavailable(ErrCodeModelNotReady, "The recommendation model has not been trained yet")
	case errors.Is(err, recommend.ErrTrainingInProgress):
		rw.Error(http.StatusConflict, ErrCodeTrainingInProgress, "A training run is already in progress")
	case errors.Is(err, recommend.ErrInitialization):
		logging.Ctx(r.Context()).Error().Str("error", sanitizeLogValue(err.Error())).Msg("Model training failed")
		rw.Error(http.StatusInternalServerError, ErrCodeTrainingFailed, "Model training failed")
	default:
		logging.Ctx(r.Context()).Error().Str("error", sanitizeLogValue(err.Error())).Msg("Recommendation engine error")
		rw.InternalError("Recommendation engine error")
	}
}
