// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when no model exists for a name or version.
	ErrNotFound = errors.New("model not found")

	// ErrCorrupt is returned when stored bytes cannot be decoded or fail
	// checksum or format checks.
	ErrCorrupt = errors.New("model data corrupt")
)

// FormatVersion identifies the record layout written by this package.
// Records with a different format version are rejected as corrupt.
const FormatVersion = 1

// record is the persisted form of a model.
type record struct {
	Metadata       ModelMetadata
	CompressedData []byte
}

// encodeRecord serializes data with gob, checksums and compresses it, and
// returns the gob-encoded record together with the completed metadata.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func encodeRecord(name string, version int, data interface{}, meta ModelMetadata) ([]byte, ModelMetadata, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, meta, fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, meta, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, meta, fmt.Errorf("finalize compression: %w", err)
	}

	meta.Name = name
	meta.Version = version
	meta.FormatVersion = FormatVersion
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()

	var out bytes.Buffer
	rec := record{Metadata: meta, CompressedData: compressed.Bytes()}
	if err := gob.NewEncoder(&out).Encode(rec); err != nil {
		return nil, meta, fmt.Errorf("write record: %w", err)
	}

	return out.Bytes(), meta, nil
}

// decodeRecord reverses encodeRecord into target. Every failure after the
// bytes were read is reported as ErrCorrupt.
func decodeRecord(r io.Reader, target interface{}) (*ModelMetadata, error) {
	var rec record
	if err := gob.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: read record: %v", ErrCorrupt, err)
	}

	if rec.Metadata.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: format version %d, want %d",
			ErrCorrupt, rec.Metadata.FormatVersion, FormatVersion)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(rec.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress model: %v", ErrCorrupt, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("%w: read decompressed data: %v", ErrCorrupt, err)
	}

	hash := sha256.Sum256(rawData)
	checksum := hex.EncodeToString(hash[:])
	if checksum != rec.Metadata.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch: expected %s, got %s",
			ErrCorrupt, rec.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("%w: decode model: %v", ErrCorrupt, err)
	}

	return &rec.Metadata, nil
}
