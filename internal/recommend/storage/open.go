// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package storage

import (
	"context"
	"fmt"
)

// Supported backend names for Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Backend is the surface shared by Store and BadgerStore.
type Backend interface {
	Save(ctx context.Context, name string, version int, data interface{}, meta ModelMetadata) error
	Load(ctx context.Context, name string, version int, target interface{}) (*ModelMetadata, error)
	GetLatestVersion(name string) (int, bool)
	Delete(ctx context.Context, name string, version int) error
	Prune(ctx context.Context, name string, keepVersions int) error
	Close() error
}

var (
	_ Backend = (*Store)(nil)
	_ Backend = (*BadgerStore)(nil)
)

// Open opens the named backend at path. An empty backend selects the file
// store.
func Open(backend, path string) (Backend, error) {
	switch backend {
	case BackendFile, "":
		s, err := NewStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendBadger:
		s, err := OpenBadgerStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown model store backend %q", backend)
	}
}

// Close is a no-op; the file store holds no open handles.
func (s *Store) Close() error { return nil }
