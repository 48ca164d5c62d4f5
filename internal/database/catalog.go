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
)

// Product is a catalog entry. Only active products count toward the
// recommendation population.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UpsertProduct inserts a product or updates its mutable fields.
//
//nolint:gocritic // Product passed by value is acceptable for this write operation
func (db *DB) UpsertProduct(ctx context.Context, p Product) error {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProduct)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO products (id, name, category, price, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			active = EXCLUDED.active`,
		p.ID, p.Name, p.Category, p.Price, p.Active, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
	}
	return nil
}

// SetProductActive marks a product as listed or delisted.
func (db *DB) SetProductActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, "UPDATE products SET active = ? WHERE id = ?", active, id)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: product %s not found", ErrInvalidProduct, id)
	}
	return nil
}

// UpsertUser registers a user. Registering an existing user is a no-op.
func (db *DB) UpsertUser(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInteraction)
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (id, created_at) VALUES (?, ?)
		ON CONFLICT (id) DO NOTHING`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", id, err)
	}
	return nil
}
