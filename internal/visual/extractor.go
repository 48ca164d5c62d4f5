// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package visual

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/buyonix-recommender/internal/config"
	"github.com/tomtom215/buyonix-recommender/internal/metrics"
	"github.com/tomtom215/buyonix-recommender/internal/upstream"
)

// ExtractorBreakerName labels the feature extraction breaker.
const ExtractorBreakerName = "visual-extractor"

// maxErrorBodySize limits how much of an error response is kept.
const maxErrorBodySize = 1024

var (
	// ErrNoImage is returned when a request carries no image.
	ErrNoImage = errors.New("no image provided")

	// ErrExtraction is returned when the extraction service rejects an image
	// or cannot be reached.
	ErrExtraction = errors.New("feature extraction failed")

	// ErrImageRejected is returned, wrapped in ErrExtraction, when the
	// service answered but could not use the image. It does not count
	// against the circuit breaker.
	ErrImageRejected = errors.New("image rejected")
)

// FeatureExtractor turns an image into an embedding vector.
type FeatureExtractor interface {
	Extract(ctx context.Context, image string) ([]float64, error)
}

// Extractor is the HTTP client for the external feature extraction service.
//
// The service accepts POST /extract with {"image": "<base64 data URL or
// image URL>"} and answers {"success": true, "features": [...]} or
// {"success": false, "error": "..."}. GET /health reports readiness.
type Extractor struct {
	baseURL string
	client  *http.Client
	breaker *upstream.Breaker
	limiter *rate.Limiter
}

var _ FeatureExtractor = (*Extractor)(nil)

type extractRequest struct {
	Image string `json:"image"`
}

type extractResponse struct {
	Success  bool      `json:"success"`
	Features []float64 `json:"features"`
	Error    string    `json:"error"`
}

// NewExtractor creates an extraction client. Requests are bounded by
// cfg.Timeout, paced by cfg.RateLimit and pass through a circuit breaker
// configured by breakerCfg.
func NewExtractor(cfg *config.VisualConfig, breakerCfg *config.UpstreamConfig) *Extractor {
	e := &Extractor{
		baseURL: strings.TrimRight(cfg.ExtractorURL, "/"),
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker: upstream.NewBreaker(ExtractorBreakerName, breakerCfg),
	}
	if cfg.RateLimit > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}
	return e
}

// Breaker exposes the extractor's circuit breaker for health reporting.
func (e *Extractor) Breaker() *upstream.Breaker { return e.breaker }

// Extract returns the embedding of image.
func (e *Extractor) Extract(ctx context.Context, image string) ([]float64, error) {
	if strings.TrimSpace(image) == "" {
		return nil, ErrNoImage
	}

	// Waiting callers do not count against the breaker.
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limited: %w", ErrExtraction, err)
		}
	}

	start := time.Now()
	result, err := e.breaker.Execute(func() (interface{}, error) {
		return e.extract(ctx, image)
	})
	metrics.RecordVisualExtraction(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	features, ok := result.([]float64)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type %T", ErrExtraction, result)
	}
	return features, nil
}

func (e *Extractor) extract(ctx context.Context, image string) ([]float64, error) {
	body, err := json.Marshal(extractRequest{Image: image})
	if err != nil {
		return nil, fmt.Errorf("failed to encode extract request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract request failed: %w", err)
	}
	defer resp.Body.Close()

	var out extractResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	// 4xx answers and structured {"success": false, "error": ...} bodies
	// blame the image, not the service.
	clientErr := resp.StatusCode >= 400 && resp.StatusCode < 500
	refused := decodeErr == nil && !out.Success && out.Error != ""
	if clientErr || refused {
		msg := out.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %w: status %d: %s", ErrImageRejected, upstream.ErrRejected, resp.StatusCode, msg)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("extract request failed with status %d: invalid response: %w", resp.StatusCode, decodeErr)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		return nil, fmt.Errorf("extract request failed with status %d: unknown error", resp.StatusCode)
	}
	if len(out.Features) == 0 {
		return nil, fmt.Errorf("extract response carried no features")
	}

	return out.Features, nil
}

// Health checks that the extraction service is up.
func (e *Extractor) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health request failed with status %d: %s", resp.StatusCode, readBodyForError(resp.Body))
	}
	return nil
}

// readBodyForError reads at most maxErrorBodySize bytes of a response body.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	return string(body)
}
