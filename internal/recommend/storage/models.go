// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ModelMetadata contains information about a stored model.
type ModelMetadata struct {
	// Name is the model name (e.g., "cf_model").
	Name string `json:"name"`

	// Version is the model version (monotonically increasing).
	Version int `json:"version"`

	// FormatVersion is the record layout version.
	FormatVersion int `json:"format_version"`

	// TrainedAt is when the model was trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the model was saved.
	SavedAt time.Time `json:"saved_at"`

	// InteractionCount is the number of observed interactions used for training.
	InteractionCount int `json:"interaction_count"`

	// ProductCount is the number of unique products.
	ProductCount int `json:"product_count"`

	// UserCount is the number of unique users.
	UserCount int `json:"user_count"`

	// Factors is the number of latent factors.
	Factors int `json:"factors"`

	// ExplainedVariance is the variance ratio captured by the factors.
	ExplainedVariance float64 `json:"explained_variance"`

	// DataSource is "real" or "synthetic".
	DataSource string `json:"data_source"`

	// Checksum is the SHA-256 checksum of the model data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model size in bytes.
	SizeBytes int64 `json:"size_bytes"`

	// TrainingDurationMS is how long training took.
	TrainingDurationMS int64 `json:"training_duration_ms"`
}

const modelFileSuffix = ".gob.gz"

// Store manages model persistence on the local filesystem.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// Keep track of latest version per model name
	versions map[string]int
}

// NewStore creates a new model store at the given directory.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}

	if err := s.scanModels(); err != nil {
		return nil, fmt.Errorf("scan existing models: %w", err)
	}

	return s, nil
}

// scanModels records the latest version of every model file in the directory.
func (s *Store) scanModels() error {
	all, err := s.listVersions()
	if err != nil {
		return err
	}
	for name, versions := range all {
		s.versions[name] = versions[0]
	}
	return nil
}

// listVersions returns every stored version per model name, newest first.
func (s *Store) listVersions() (map[string][]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]int)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), modelFileSuffix) {
			continue
		}
		name, version := parseModelFilename(strings.TrimSuffix(entry.Name(), modelFileSuffix))
		if name == "" {
			continue
		}
		out[name] = append(out[name], version)
	}

	for name := range out {
		sort.Sort(sort.Reverse(sort.IntSlice(out[name])))
	}
	return out, nil
}

// parseModelFilename extracts model name and version from a filename like "cf_model_v1".
func parseModelFilename(name string) (modelName string, version int) {
	idx := strings.LastIndex(name, "_v")
	if idx < 1 {
		return "", 0
	}

	if _, err := fmt.Sscanf(name[idx+2:], "%d", &version); err != nil || version < 1 {
		return "", 0
	}

	return name[:idx], version
}

// Save stores a model with the given name and version. The file is written
// to a temporary name and renamed into place so readers never observe a
// partial record.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, data interface{}, meta ModelMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, _, err := encodeRecord(name, version, data, meta)
	if err != nil {
		return err
	}

	filename := s.modelPath(name, version)
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o600); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("finalize model file: %w", err)
	}

	if current, ok := s.versions[name]; !ok || version > current {
		s.versions[name] = version
	}

	return nil
}

// Load loads a model by name and version into target.
// If version is 0, loads the latest version.
func (s *Store) Load(ctx context.Context, name string, version int, target interface{}) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
	}

	raw, err := os.ReadFile(s.modelPath(name, version))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s v%d", ErrNotFound, name, version)
	}
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}

	return decodeRecord(bytes.NewReader(raw), target)
}

// GetLatestVersion returns the latest version number for a model.
func (s *Store) GetLatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	return version, ok
}

// Delete removes a specific model version. Deleting a missing version is
// not an error.
func (s *Store) Delete(ctx context.Context, name string, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.modelPath(name, version)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete model: %w", err)
	}

	if s.versions[name] != version {
		return nil
	}

	all, err := s.listVersions()
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	if versions := all[name]; len(versions) > 0 {
		s.versions[name] = versions[0]
	} else {
		delete(s.versions, name)
	}

	return nil
}

// Prune removes old model versions, keeping only the latest N versions.
func (s *Store) Prune(ctx context.Context, name string, keepVersions int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keepVersions < 1 {
		keepVersions = 1
	}

	all, err := s.listVersions()
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}

	versions := all[name]
	for i := keepVersions; i < len(versions); i++ {
		_ = os.Remove(s.modelPath(name, versions[i])) //nolint:errcheck // best-effort cleanup of old versions
	}

	return nil
}

// modelPath returns the file path for a model.
func (s *Store) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, modelFileSuffix))
}
