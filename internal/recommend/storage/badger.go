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
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Key prefix for BadgerDB storage. Versions are zero-padded so that key
// order matches version order.
const badgerModelPrefix = "model/"

// BadgerStore implements model persistence on top of BadgerDB. Records use
// the same encoding as the file Store.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore creates a BadgerDB-backed model store. The caller owns db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// OpenBadgerStore opens (or creates) a BadgerDB at path and wraps it.
// An empty path opens an in-memory database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for models: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func badgerKey(name string, version int) []byte {
	return []byte(fmt.Sprintf("%s%s/v%010d", badgerModelPrefix, name, version))
}

func badgerNamePrefix(name string) []byte {
	return []byte(badgerModelPrefix + name + "/v")
}

// Save stores a model with the given name and version.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *BadgerStore) Save(ctx context.Context, name string, version int, data interface{}, meta ModelMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, _, err := encodeRecord(name, version, data, meta)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(badgerKey(name, version), encoded); err != nil {
			return fmt.Errorf("set model: %w", err)
		}
		return nil
	})
}

// Load loads a model by name and version into target.
// If version is 0, loads the latest version.
func (s *BadgerStore) Load(ctx context.Context, name string, version int, target interface{}) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if version == 0 {
		latest, ok := s.GetLatestVersion(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		version = latest
	}

	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(name, version))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s v%d", ErrNotFound, name, version)
		}
		if err != nil {
			return fmt.Errorf("get model: %w", err)
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return decodeRecord(bytes.NewReader(raw), target)
}

// GetLatestVersion returns the latest version number for a model.
func (s *BadgerStore) GetLatestVersion(name string) (int, bool) {
	versions, err := s.versions(name)
	if err != nil || len(versions) == 0 {
		return 0, false
	}
	return versions[len(versions)-1], true
}

// versions returns stored versions for name in ascending order.
func (s *BadgerStore) versions(name string) ([]int, error) {
	var out []int
	prefix := badgerNamePrefix(name)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			suffix := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
			v, err := strconv.Atoi(suffix)
			if err != nil {
				continue
			}
			out = append(out, v)
		}
		return nil
	})

	return out, err
}

// Delete removes a specific model version.
func (s *BadgerStore) Delete(ctx context.Context, name string, version int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(badgerKey(name, version)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete model: %w", err)
		}
		return nil
	})
}

// Prune removes old model versions, keeping only the latest N versions.
func (s *BadgerStore) Prune(ctx context.Context, name string, keepVersions int) error {
	if keepVersions < 1 {
		keepVersions = 1
	}

	versions, err := s.versions(name)
	if err != nil {
		return fmt.Errorf("list versions: %w", err)
	}
	if len(versions) <= keepVersions {
		return nil
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, v := range versions[:len(versions)-keepVersions] {
			if err := txn.Delete(badgerKey(name, v)); err != nil {
				return fmt.Errorf("delete model v%d: %w", v, err)
			}
		}
		return nil
	})
}
