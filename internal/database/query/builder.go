// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package query

import (
	"fmt"
	"strings"
	"time"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddTimeRange(since, nil)
//	wb.AddUsers([]string{"u1", "u2"})
//	whereClause, args := wb.Build()
//	// created_at >= ? AND user_id IN (?, ?)
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddTimeRange adds created_at bounds. Nil bounds are skipped; the end bound
// is exclusive.
func (wb *WhereBuilder) AddTimeRange(start, end *time.Time) *WhereBuilder {
	if start != nil {
		wb.clauses = append(wb.clauses, "created_at >= ?")
		wb.args = append(wb.args, *start)
	}
	if end != nil {
		wb.clauses = append(wb.clauses, "created_at < ?")
		wb.args = append(wb.args, *end)
	}
	return wb
}

// AddIn adds "column IN (?, ...)" for a non-empty value list. column must be
// a trusted identifier, never user input.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}

	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	return wb
}

// AddUsers filters by user_id.
func (wb *WhereBuilder) AddUsers(users []string) *WhereBuilder {
	return wb.AddIn("user_id", users)
}

// AddProducts filters by product_id.
func (wb *WhereBuilder) AddProducts(products []string) *WhereBuilder {
	return wb.AddIn("product_id", products)
}

// AddActions filters by interaction action (view, cart, save, purchase).
func (wb *WhereBuilder) AddActions(actions []string) *WhereBuilder {
	return wb.AddIn("action", actions)
}

// Build joins the clauses with AND. It returns ("1=1", []) if no clauses
// were added.
//
//	whereClause, args := wb.Build()
//	query := fmt.Sprintf("SELECT * FROM interactions WHERE %s", whereClause)
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
