// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateVisual(); err != nil {
		return err
	}

	if err := c.validateUpstream(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validEnvironments defines the allowed deployment environments
var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got: %s", c.Server.Environment)
	}
	return nil
}

// validStoreBackends defines the supported model store backends
var validStoreBackends = map[string]bool{
	"file":   true,
	"badger": true,
}

// validateRecommend validates the engine and lifecycle settings
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) validateRecommend() error {
	r := &c.Recommend

	if r.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if !validStoreBackends[r.StoreBackend] {
		return fmt.Errorf("MODEL_STORE_BACKEND must be file or badger, got: %s", r.StoreBackend)
	}
	if r.ModelName == "" || strings.ContainsAny(r.ModelName, `/\`) {
		return fmt.Errorf("MODEL_NAME must be a non-empty name without path separators")
	}
	if r.Factors < 1 {
		return fmt.Errorf("RECOMMEND_FACTORS must be positive, got %d", r.Factors)
	}
	if r.MinRealInteractions < 0 {
		return fmt.Errorf("RECOMMEND_MIN_REAL_INTERACTIONS must be non-negative, got %d", r.MinRealInteractions)
	}
	if r.FetchTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_FETCH_TIMEOUT must be positive")
	}
	if r.RefreshInterval < 0 {
		return fmt.Errorf("RECOMMEND_REFRESH_INTERVAL must not be negative")
	}
	if r.DefaultProducts < 1 || r.DefaultUsers < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_PRODUCTS and RECOMMEND_DEFAULT_USERS must be positive")
	}
	if r.SyntheticInteractions < 1 {
		return fmt.Errorf("RECOMMEND_SYNTHETIC_INTERACTIONS must be positive, got %d", r.SyntheticInteractions)
	}
	if r.WeightScale <= 0 {
		return fmt.Errorf("RECOMMEND_WEIGHT_SCALE must be positive, got %f", r.WeightScale)
	}
	if r.TrainingTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_TRAINING_TIMEOUT must be positive")
	}
	if r.RetainVersions < 1 {
		return fmt.Errorf("RECOMMEND_RETAIN_VERSIONS must be at least 1, got %d", r.RetainVersions)
	}
	if r.DefaultN < 1 || r.MaxN < r.DefaultN {
		return fmt.Errorf("RECOMMEND_DEFAULT_N must be positive and not exceed RECOMMEND_MAX_N (%d > %d)", r.DefaultN, r.MaxN)
	}
	if r.CacheSize < 0 {
		return fmt.Errorf("RECOMMEND_CACHE_SIZE must not be negative, got %d", r.CacheSize)
	}
	if r.CacheSize > 0 && r.CacheTTL <= 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL must be positive when the cache is enabled")
	}
	return nil
}

// validateVisual validates the visual search settings (only if enabled)
func (c *Config) validateVisual() error {
	if !c.Visual.Enabled {
		return nil
	}
	if err := validateBaseURL(c.Visual.ExtractorURL, "VISUAL_EXTRACTOR_URL"); err != nil {
		return err
	}
	if c.Visual.Timeout <= 0 {
		return fmt.Errorf("VISUAL_TIMEOUT must be positive")
	}
	if c.Visual.TopN < 1 {
		return fmt.Errorf("VISUAL_TOP_N must be positive, got %d", c.Visual.TopN)
	}
	if c.Visual.MinSimilarity < -1 || c.Visual.MinSimilarity > 1 {
		return fmt.Errorf("VISUAL_MIN_SIMILARITY must be within [-1, 1], got %f", c.Visual.MinSimilarity)
	}
	if c.Visual.RateLimit < 0 {
		return fmt.Errorf("VISUAL_RATE_LIMIT must not be negative, got %f", c.Visual.RateLimit)
	}
	if c.Visual.RateLimit > 0 && c.Visual.RateBurst < 1 {
		return fmt.Errorf("VISUAL_RATE_BURST must be positive when VISUAL_RATE_LIMIT is set, got %d", c.Visual.RateBurst)
	}
	return nil
}

// validateBaseURL accepts an http(s) base URL: the client appends /extract
// and /health itself, so a path or query would be silently doubled.
func validateBaseURL(raw, name string) error {
	u, err := url.Parse(raw)
	switch {
	case err != nil:
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("%s must use http or https, got %q", name, u.Scheme)
	case u.Host == "":
		return fmt.Errorf("%s must include a host", name)
	case strings.Trim(u.Path, "/") != "":
		return fmt.Errorf("%s must be a base URL without a path, got %q", name, u.Path)
	case u.RawQuery != "" || u.Fragment != "":
		return fmt.Errorf("%s must not carry a query or fragment", name)
	}
	return nil
}

func (c *Config) validateUpstream() error {
	if c.Upstream.FailureRatio <= 0 || c.Upstream.FailureRatio > 1 {
		return fmt.Errorf("UPSTREAM_FAILURE_RATIO must be in (0, 1], got %f", c.Upstream.FailureRatio)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if c.hasWildcardCORS() && c.IsProduction() && c.Security.AdminToken != "" {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production when ADMIN_TOKEN is set. " +
			"Set specific origins: CORS_ORIGINS=https://shop.example.com")
	}
	return c.validateRateLimits()
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the accepted log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %s", c.Logging.Format)
	}
	return nil
}
