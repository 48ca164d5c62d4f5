// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package storage

import (
	"bytes"
	"encoding/gob"
	"os"
)

func decodeInto(encoded []byte, rec *record) (*record, error) {
	if err := gob.NewDecoder(bytes.NewReader(encoded)).Decode(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func writeRecord(path string, rec record) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}
