// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/buyonix-recommender/internal/metrics"
	"github.com/tomtom215/buyonix-recommender/internal/visual"
)

var _ visual.CandidateSource = (*DB)(nil)

// UpsertProductEmbedding stores the image embedding of a product, replacing
// any previous one. Embeddings are kept as JSON arrays.
func (db *DB) UpsertProductEmbedding(ctx context.Context, productID string, embedding []float64) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProduct)
	}
	if len(embedding) == 0 {
		return fmt.Errorf("%w: empty embedding for %s", ErrInvalidProduct, productID)
	}

	data, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO product_embeddings (product_id, dimensions, embedding, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (product_id) DO UPDATE SET
			dimensions = EXCLUDED.dimensions,
			embedding = EXCLUDED.embedding,
			updated_at = EXCLUDED.updated_at`,
		productID, len(embedding), string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store embedding for %s: %w", productID, err)
	}
	return nil
}

// ProductEmbeddings returns the embeddings of all active products, ordered
// by product id. Products without a catalog entry are skipped.
func (db *DB) ProductEmbeddings(ctx context.Context) (out []visual.Candidate, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "product_embeddings", time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT e.product_id, e.embedding
		FROM product_embeddings e
		JOIN products p ON p.id = e.product_id
		WHERE p.active
		ORDER BY e.product_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer closeWithLog(rows, "embedding rows")

	out = []visual.Candidate{}
	for rows.Next() {
		var (
			c    visual.Candidate
			data string
		)
		if err := rows.Scan(&c.ProductID, &data); err != nil {
			return nil, fmt.Errorf("failed to scan embedding: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &c.Embedding); err != nil {
			return nil, fmt.Errorf("corrupt embedding for %s: %w", c.ProductID, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating embeddings: %w", err)
	}

	return out, nil
}
