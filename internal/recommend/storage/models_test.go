// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// testState is a stand-in for a model state.
type testState struct {
	IDs     []string
	Factors [][]float64
}

func newStores(t *testing.T) map[string]Backend {
	t.Helper()

	fileStore, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	badgerStore, err := OpenBadgerStore("")
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	t.Cleanup(func() { _ = badgerStore.Close() })

	return map[string]Backend{
		"file":   fileStore,
		"badger": badgerStore,
	}
}

func sampleState() testState {
	return testState{
		IDs:     []string{"product_1", "product_2"},
		Factors: [][]float64{{0.1, -0.25}, {1.5, 3.0000000001}},
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "creates directory if not exists",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "new_dir")
			},
			wantErr: false,
		},
		{
			name: "uses existing directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			store, err := NewStore(dir)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewStore() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && store == nil {
				t.Error("NewStore() returned nil store without error")
			}
		})
	}
}

func TestStores_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	trainedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			meta := ModelMetadata{
				TrainedAt:         trainedAt,
				InteractionCount:  120,
				ProductCount:      45,
				UserCount:         5,
				Factors:           4,
				ExplainedVariance: 0.42,
				DataSource:        "synthetic",
			}
			if err := store.Save(ctx, "cf_model", 1, sampleState(), meta); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			var loaded testState
			got, err := store.Load(ctx, "cf_model", 1, &loaded)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if got.Name != "cf_model" || got.Version != 1 {
				t.Errorf("metadata = %s v%d, want cf_model v1", got.Name, got.Version)
			}
			if got.FormatVersion != FormatVersion {
				t.Errorf("FormatVersion = %d, want %d", got.FormatVersion, FormatVersion)
			}
			if got.Checksum == "" {
				t.Error("Checksum is empty")
			}
			if !got.TrainedAt.Equal(trainedAt) {
				t.Errorf("TrainedAt = %v, want %v", got.TrainedAt, trainedAt)
			}
			if got.UserCount != 5 || got.ProductCount != 45 || got.Factors != 4 {
				t.Errorf("counts = %d/%d/%d, want 5/45/4", got.UserCount, got.ProductCount, got.Factors)
			}

			want := sampleState()
			if len(loaded.IDs) != len(want.IDs) || loaded.IDs[1] != want.IDs[1] {
				t.Errorf("IDs = %v, want %v", loaded.IDs, want.IDs)
			}
			if loaded.Factors[1][1] != want.Factors[1][1] {
				t.Errorf("Factors[1][1] = %v, want %v", loaded.Factors[1][1], want.Factors[1][1])
			}
		})
	}
}

func TestStores_LatestVersion(t *testing.T) {
	ctx := context.Background()

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok := store.GetLatestVersion("cf_model"); ok {
				t.Fatal("GetLatestVersion() reported a version for an empty store")
			}

			for v := 1; v <= 3; v++ {
				if err := store.Save(ctx, "cf_model", v, sampleState(), ModelMetadata{UserCount: v}); err != nil {
					t.Fatalf("Save(v%d) error = %v", v, err)
				}
			}

			latest, ok := store.GetLatestVersion("cf_model")
			if !ok || latest != 3 {
				t.Fatalf("GetLatestVersion() = %d, %v, want 3, true", latest, ok)
			}

			var loaded testState
			meta, err := store.Load(ctx, "cf_model", 0, &loaded)
			if err != nil {
				t.Fatalf("Load(latest) error = %v", err)
			}
			if meta.Version != 3 || meta.UserCount != 3 {
				t.Errorf("Load(latest) = v%d users=%d, want v3 users=3", meta.Version, meta.UserCount)
			}
		})
	}
}

func TestStores_LoadNotFound(t *testing.T) {
	ctx := context.Background()

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			var loaded testState
			if _, err := store.Load(ctx, "missing", 0, &loaded); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load(latest) error = %v, want ErrNotFound", err)
			}
			if _, err := store.Load(ctx, "missing", 7, &loaded); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load(v7) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStores_DeleteAndPrune(t *testing.T) {
	ctx := context.Background()

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			for v := 1; v <= 5; v++ {
				if err := store.Save(ctx, "cf_model", v, sampleState(), ModelMetadata{}); err != nil {
					t.Fatalf("Save(v%d) error = %v", v, err)
				}
			}

			if err := store.Prune(ctx, "cf_model", 2); err != nil {
				t.Fatalf("Prune() error = %v", err)
			}

			var loaded testState
			for v := 1; v <= 3; v++ {
				if _, err := store.Load(ctx, "cf_model", v, &loaded); !errors.Is(err, ErrNotFound) {
					t.Errorf("Load(v%d) after prune error = %v, want ErrNotFound", v, err)
				}
			}
			if _, err := store.Load(ctx, "cf_model", 4, &loaded); err != nil {
				t.Errorf("Load(v4) after prune error = %v", err)
			}

			if err := store.Delete(ctx, "cf_model", 5); err != nil {
				t.Fatalf("Delete(v5) error = %v", err)
			}
			if latest, ok := store.GetLatestVersion("cf_model"); !ok || latest != 4 {
				t.Errorf("GetLatestVersion() after delete = %d, %v, want 4, true", latest, ok)
			}

			if err := store.Delete(ctx, "cf_model", 4); err != nil {
				t.Fatalf("Delete(v4) error = %v", err)
			}
			if _, ok := store.GetLatestVersion("cf_model"); ok {
				t.Error("GetLatestVersion() reported a version after deleting all")
			}

			if err := store.Delete(ctx, "cf_model", 99); err != nil {
				t.Errorf("Delete(missing) error = %v, want nil", err)
			}
		})
	}
}

func TestStore_RejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := store.Save(ctx, "cf_model", 1, sampleState(), ModelMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	path := filepath.Join(dir, "cf_model_v1.gob.gz")
	if err := os.WriteFile(path, []byte("not a model"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var loaded testState
	if _, err := store.Load(ctx, "cf_model", 1, &loaded); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Load() error = %v, want ErrCorrupt", err)
	}
}

func TestStore_RejectsTamperedChecksum(t *testing.T) {
	ctx := context.Background()

	encoded, _, err := encodeRecord("cf_model", 1, sampleState(), ModelMetadata{})
	if err != nil {
		t.Fatalf("encodeRecord() error = %v", err)
	}

	// Re-encode with a different payload under the original checksum.
	other, _, err := encodeRecord("cf_model", 1, testState{IDs: []string{"x"}}, ModelMetadata{})
	if err != nil {
		t.Fatalf("encodeRecord() error = %v", err)
	}
	var a, b record
	if _, err := decodeInto(encoded, &a); err != nil {
		t.Fatalf("decode a: %v", err)
	}
	if _, err := decodeInto(other, &b); err != nil {
		t.Fatalf("decode b: %v", err)
	}
	b.Metadata.Checksum = a.Metadata.Checksum

	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := writeRecord(filepath.Join(dir, "cf_model_v1.gob.gz"), b); err != nil {
		t.Fatalf("writeRecord() error = %v", err)
	}
	store.versions["cf_model"] = 1

	var loaded testState
	if _, err := store.Load(ctx, "cf_model", 1, &loaded); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Load() error = %v, want ErrCorrupt", err)
	}
}

func TestStore_ScansExistingModels(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	for v := 1; v <= 2; v++ {
		if err := first.Save(ctx, "cf_model", v, sampleState(), ModelMetadata{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	second, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if latest, ok := second.GetLatestVersion("cf_model"); !ok || latest != 2 {
		t.Errorf("GetLatestVersion() = %d, %v, want 2, true", latest, ok)
	}
}

func TestParseModelFilename(t *testing.T) {
	tests := []struct {
		input       string
		wantName    string
		wantVersion int
	}{
		{"cf_model_v1", "cf_model", 1},
		{"cf_model_v12", "cf_model", 12},
		{"my_v_model_v3", "my_v_model", 3},
		{"cf_model", "", 0},
		{"cf_model_vx", "", 0},
		{"_v1", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, version := parseModelFilename(tt.input)
			if name != tt.wantName || version != tt.wantVersion {
				t.Errorf("parseModelFilename(%q) = %q, %d, want %q, %d",
					tt.input, name, version, tt.wantName, tt.wantVersion)
			}
		})
	}
}
