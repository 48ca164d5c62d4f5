// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

// Package storage provides versioned persistence for trained models.
//
// This package handles the serialization, compression, and storage of trained
// recommendation models so that a process restart can reuse a model instead
// of retraining it.
//
// # Overview
//
// The storage system provides:
//   - Gob serialization for efficient Go type encoding
//   - Gzip compression to reduce storage footprint
//   - SHA-256 checksums for data integrity verification
//   - A format version so incompatible records are rejected
//   - Version tracking and pruning of old versions
//
// Two backends share the same record encoding: Store writes one file per
// version, BadgerStore writes one key per version into BadgerDB.
//
// # Storage Format
//
//	file:   {model_name}_v{version}.gob.gz
//	badger: model/{model_name}/v{version:010d}
//
//	record:
//	  - Metadata (ModelMetadata, including FormatVersion and Checksum)
//	  - CompressedData (gzip-compressed gob-encoded model state)
//
// # Errors
//
// Load returns ErrNotFound when no record exists and ErrCorrupt when a record
// exists but cannot be decoded, fails its checksum, or has an unknown format
// version. Callers can tell the two apart with errors.Is.
//
// # Usage Example
//
//	store, err := storage.NewStore("/data/models")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = store.Save(ctx, "cf_model", 1, state, storage.ModelMetadata{
//	    TrainedAt: time.Now(),
//	    UserCount: 5,
//	})
//
//	var loaded State
//	meta, err := store.Load(ctx, "cf_model", 0, &loaded) // 0 = latest
//
// # Thread Safety
//
// Store serializes writes with a mutex and writes files atomically via
// rename. BadgerStore relies on BadgerDB transactions.
package storage
