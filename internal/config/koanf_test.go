// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate runs the test in an empty directory with no config file.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	return dir
}

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaultConfig().Validate() error = %v", err)
	}

	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want 8090", cfg.Server.Port)
	}
	if cfg.Recommend.Factors != 10 {
		t.Errorf("Recommend.Factors = %d, want 10", cfg.Recommend.Factors)
	}
	if cfg.Recommend.DefaultProducts != 45 || cfg.Recommend.DefaultUsers != 5 {
		t.Errorf("Recommend defaults = %d products, %d users, want 45, 5",
			cfg.Recommend.DefaultProducts, cfg.Recommend.DefaultUsers)
	}
	if cfg.Recommend.SyntheticInteractions != 3000 || cfg.Recommend.Seed != 42 {
		t.Errorf("synthetic defaults = %d interactions, seed %d, want 3000, 42",
			cfg.Recommend.SyntheticInteractions, cfg.Recommend.Seed)
	}
	if cfg.Recommend.FetchTimeout != 3*time.Second {
		t.Errorf("Recommend.FetchTimeout = %v, want 3s", cfg.Recommend.FetchTimeout)
	}
	if cfg.Recommend.StoreBackend != "file" {
		t.Errorf("Recommend.StoreBackend = %q, want file", cfg.Recommend.StoreBackend)
	}
	if cfg.Visual.Enabled {
		t.Error("Visual.Enabled should be false by default")
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"ENVIRONMENT", "server.environment"},
		{"DUCKDB_PATH", "database.path"},
		{"MODEL_PATH", "recommend.model_path"},
		{"MODEL_STORE_BACKEND", "recommend.store_backend"},
		{"RECOMMEND_FACTORS", "recommend.factors"},
		{"RECOMMEND_FETCH_TIMEOUT", "recommend.fetch_timeout"},
		{"RECOMMEND_VERBOSE", "recommend.verbose"},
		{"VISUAL_EXTRACTOR_URL", "visual.extractor_url"},
		{"UPSTREAM_FAILURE_RATIO", "upstream.failure_ratio"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty string", got)
	}

	writeConfigFile(t, dir, "server:\n  port: 9000\n")
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() = %q, want config.yaml", got)
	}

	custom := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(custom, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, custom)
	if got := findConfigFile(); got != custom {
		t.Errorf("findConfigFile() = %q, want %q", got, custom)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() with missing CONFIG_PATH = %q, want config.yaml", got)
	}
}

func TestLoadWithKoanfDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Recommend.ModelName != "cf_model" {
		t.Errorf("Recommend.ModelName = %q, want cf_model", cfg.Recommend.ModelName)
	}
	if cfg.Recommend.RefreshInterval != time.Hour {
		t.Errorf("Recommend.RefreshInterval = %v, want 1h", cfg.Recommend.RefreshInterval)
	}
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolate(t)

	t.Setenv("HTTP_PORT", "9191")
	t.Setenv("DUCKDB_PATH", "/tmp/shop.duckdb")
	t.Setenv("RECOMMEND_FACTORS", "6")
	t.Setenv("RECOMMEND_FETCH_TIMEOUT", "750ms")
	t.Setenv("RECOMMEND_VERBOSE", "true")
	t.Setenv("MODEL_STORE_BACKEND", "badger")
	t.Setenv("CORS_ORIGINS", "https://shop.example.com, https://admin.example.com")
	t.Setenv("UNRELATED_SETTING", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("Server.Port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/shop.duckdb" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Recommend.Factors != 6 {
		t.Errorf("Recommend.Factors = %d, want 6", cfg.Recommend.Factors)
	}
	if cfg.Recommend.FetchTimeout != 750*time.Millisecond {
		t.Errorf("Recommend.FetchTimeout = %v, want 750ms", cfg.Recommend.FetchTimeout)
	}
	if !cfg.Recommend.Verbose {
		t.Error("Recommend.Verbose = false, want true")
	}
	if cfg.Recommend.StoreBackend != "badger" {
		t.Errorf("Recommend.StoreBackend = %q, want badger", cfg.Recommend.StoreBackend)
	}
	want := []string{"https://shop.example.com", "https://admin.example.com"}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != want[0] || cfg.Security.CORSOrigins[1] != want[1] {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := isolate(t)
	writeConfigFile(t, dir, `
server:
  port: 7070
recommend:
  factors: 4
  default_products: 60
  model_path: /var/lib/models
visual:
  enabled: true
  extractor_url: http://features:5001
  top_n: 8
`)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Recommend.Factors != 4 || cfg.Recommend.DefaultProducts != 60 {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.Recommend.DefaultUsers != 5 {
		t.Errorf("Recommend.DefaultUsers = %d, want default 5 to survive", cfg.Recommend.DefaultUsers)
	}
	if !cfg.Visual.Enabled || cfg.Visual.TopN != 8 {
		t.Errorf("Visual = %+v", cfg.Visual)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	writeConfigFile(t, dir, "recommend:\n  factors: 4\n")
	t.Setenv("RECOMMEND_FACTORS", "8")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Recommend.Factors != 8 {
		t.Errorf("Recommend.Factors = %d, want env value 8", cfg.Recommend.Factors)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"invalid port", map[string]string{"HTTP_PORT": "70000"}},
		{"zero factors", map[string]string{"RECOMMEND_FACTORS": "0"}},
		{"unknown store backend", map[string]string{"MODEL_STORE_BACKEND": "s3"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"visual without url", map[string]string{"VISUAL_ENABLED": "true", "VISUAL_EXTRACTOR_URL": "features:5001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadWithKoanf(); err == nil {
				t.Error("LoadWithKoanf() error = nil, want validation error")
			}
		})
	}
}
