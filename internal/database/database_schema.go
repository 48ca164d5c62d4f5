// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with an appropriate timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the catalog and interaction tables if they are missing.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS products (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL DEFAULT '',
			category VARCHAR NOT NULL DEFAULT '',
			price DOUBLE NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
		`CREATE SEQUENCE IF NOT EXISTS interaction_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS interactions (
			id BIGINT PRIMARY KEY DEFAULT nextval('interaction_id_seq'),
			user_id VARCHAR NOT NULL,
			product_id VARCHAR NOT NULL,
			action VARCHAR NOT NULL DEFAULT 'view',
			rating DOUBLE,
			weight DOUBLE NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
		`CREATE TABLE IF NOT EXISTS product_embeddings (
			product_id VARCHAR PRIMARY KEY,
			dimensions INTEGER NOT NULL,
			embedding VARCHAR NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
	}
}

// createIndexes creates the indexes used by the interaction queries. The
// products table is left unindexed so ON CONFLICT DO UPDATE can assign every
// column.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}

func indexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_interactions_created ON interactions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id)`,
	}
}
