// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/buyonix-recommender/internal/database/query"
	"github.com/tomtom215/buyonix-recommender/internal/metrics"
	"github.com/tomtom215/buyonix-recommender/internal/recommend"
)

var _ recommend.InteractionSource = (*DB)(nil)

// InteractionFilter narrows ListInteractions. Zero fields do not filter.
type InteractionFilter struct {
	Since    *time.Time
	Until    *time.Time
	Users    []string
	Products []string
	Actions  []string
	Limit    int
}

// CountActiveProducts returns the number of products currently for sale.
func (db *DB) CountActiveProducts(ctx context.Context) (int, error) {
	return db.count(ctx, "SELECT COUNT(*) FROM products WHERE active")
}

// CountUsers returns the number of registered users.
func (db *DB) CountUsers(ctx context.Context) (int, error) {
	return db.count(ctx, "SELECT COUNT(*) FROM users")
}

func (db *DB) count(ctx context.Context, q string) (int, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return n, nil
}

// FetchInteractions returns the full interaction log in arrival order.
func (db *DB) FetchInteractions(ctx context.Context) ([]recommend.RawInteraction, error) {
	return db.ListInteractions(ctx, InteractionFilter{})
}

// ListInteractions returns interactions matching the filter, ordered by
// (created_at, id).
func (db *DB) ListInteractions(ctx context.Context, filter InteractionFilter) (out []recommend.RawInteraction, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "interactions", time.Since(start), err) }()

	wb := query.NewWhereBuilder().
		AddTimeRange(filter.Since, filter.Until).
		AddUsers(filter.Users).
		AddProducts(filter.Products).
		AddActions(filter.Actions)
	whereClause, args := wb.BuildWithPrefix()

	q := fmt.Sprintf(`
		SELECT user_id, product_id, action, rating, weight, created_at
		FROM interactions
		%s
		ORDER BY created_at, id`, whereClause)
	if filter.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer closeWithLog(rows, "interaction rows")

	for rows.Next() {
		var (
			r      recommend.RawInteraction
			action string
			rating sql.NullFloat64
		)
		if err := rows.Scan(&r.UserID, &r.ProductID, &action, &rating, &r.Weight, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		r.Action = recommend.Action(action)
		if rating.Valid {
			r.Rating = rating.Float64
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interactions: %w", err)
	}

	return out, nil
}

// RecordInteraction validates and appends one interaction to the log.
func (db *DB) RecordInteraction(ctx context.Context, r recommend.RawInteraction) error {
	return db.RecordInteractions(ctx, []recommend.RawInteraction{r})
}

// RecordInteractions appends a batch of interactions in a single
// transaction. The whole batch is rejected if any record is invalid.
// Users and products seen for the first time are registered in the same
// transaction so the population counts follow the interaction log.
// Existing products keep their catalog data and listing state.
func (db *DB) RecordInteractions(ctx context.Context, batch []recommend.RawInteraction) (err error) {
	if len(batch) == 0 {
		return nil
	}

	rows := make([]recommend.RawInteraction, len(batch))
	for i := range batch {
		r, err := normalizeInteraction(batch[i])
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		rows[i] = r
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "interactions", time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	if err := registerEntities(ctx, tx, rows); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO interactions (user_id, product_id, action, rating, weight, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare interaction insert: %w", err)
	}
	defer closeWithLog(stmt, "interaction insert statement")

	for i := range rows {
		r := &rows[i]
		var rating sql.NullFloat64
		if r.Rating > 0 {
			rating = sql.NullFloat64{Float64: r.Rating, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, r.UserID, r.ProductID, string(r.Action), rating, r.Weight, r.Timestamp); err != nil {
			return fmt.Errorf("failed to insert interaction %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit interactions: %w", err)
	}
	return nil
}

// registerEntities inserts the distinct users and products of rows that are
// not yet known.
func registerEntities(ctx context.Context, tx *sql.Tx, rows []recommend.RawInteraction) error {
	now := time.Now().UTC()
	users := make(map[string]struct{}, len(rows))
	products := make(map[string]struct{}, len(rows))

	for i := range rows {
		r := &rows[i]
		if _, ok := users[r.UserID]; !ok {
			users[r.UserID] = struct{}{}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO users (id, created_at) VALUES (?, ?)
				ON CONFLICT (id) DO NOTHING`, r.UserID, now); err != nil {
				return fmt.Errorf("failed to register user %s: %w", r.UserID, err)
			}
		}
		if _, ok := products[r.ProductID]; !ok {
			products[r.ProductID] = struct{}{}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO products (id, active, created_at) VALUES (?, TRUE, ?)
				ON CONFLICT (id) DO NOTHING`, r.ProductID, now); err != nil {
				return fmt.Errorf("failed to register product %s: %w", r.ProductID, err)
			}
		}
	}
	return nil
}

// normalizeInteraction trims ids, defaults the action to view, derives the
// weight from the action and stamps a missing timestamp with the current time.
func normalizeInteraction(r recommend.RawInteraction) (recommend.RawInteraction, error) {
	r.UserID = strings.TrimSpace(r.UserID)
	r.ProductID = strings.TrimSpace(r.ProductID)
	if r.UserID == "" || r.ProductID == "" {
		return r, fmt.Errorf("%w: user_id and product_id are required", ErrInvalidInteraction)
	}

	if r.Action == "" {
		r.Action = recommend.ActionView
	}
	if !r.Action.Valid() {
		return r, fmt.Errorf("%w: unknown action %q", ErrInvalidInteraction, r.Action)
	}

	if r.Rating < 0 || r.Rating > recommend.MaxStrength {
		return r, fmt.Errorf("%w: rating %.2f outside [0, %.0f]", ErrInvalidInteraction, r.Rating, recommend.MaxStrength)
	}
	if r.Weight < 0 {
		return r, fmt.Errorf("%w: negative weight", ErrInvalidInteraction)
	}
	if r.Weight == 0 {
		r.Weight = r.Action.Weight(r.Rating)
	}

	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	return r, nil
}
