// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package query

import (
	"testing"
	"time"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()

	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}

	clause, args := wb.Build()
	if clause != "1=1" {
		t.Errorf("Build() clause = %q, want 1=1", clause)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want none", args)
	}

	prefixed, _ := wb.BuildWithPrefix()
	if prefixed != "WHERE 1=1" {
		t.Errorf("BuildWithPrefix() = %q, want WHERE 1=1", prefixed)
	}
}

func TestWhereBuilder_TimeRange(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	tests := []struct {
		name       string
		start, end *time.Time
		wantClause string
		wantArgs   int
	}{
		{"both", &start, &end, "created_at >= ? AND created_at < ?", 2},
		{"start only", &start, nil, "created_at >= ?", 1},
		{"end only", nil, &end, "created_at < ?", 1},
		{"neither", nil, nil, "1=1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := NewWhereBuilder().AddTimeRange(tt.start, tt.end).Build()
			if clause != tt.wantClause {
				t.Errorf("clause = %q, want %q", clause, tt.wantClause)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args = %v, want %d", args, tt.wantArgs)
			}
		})
	}
}

func TestWhereBuilder_Filters(t *testing.T) {
	wb := NewWhereBuilder().
		AddUsers([]string{"u1", "u2"}).
		AddProducts(nil).
		AddActions([]string{"purchase"}).
		AddClause("rating IS NOT NULL")

	clause, args := wb.Build()
	want := "user_id IN (?, ?) AND action IN (?) AND rating IS NOT NULL"
	if clause != want {
		t.Errorf("clause = %q, want %q", clause, want)
	}
	if len(args) != 3 || args[0] != "u1" || args[1] != "u2" || args[2] != "purchase" {
		t.Errorf("args = %v", args)
	}
	if wb.Count() != 3 {
		t.Errorf("Count() = %d, want 3", wb.Count())
	}
}

func TestWhereBuilder_ValuesAreBoundNotInterpolated(t *testing.T) {
	clause, args := NewWhereBuilder().AddProducts([]string{"p1'; DROP TABLE products; --"}).Build()

	if clause != "product_id IN (?)" {
		t.Errorf("clause = %q, value leaked into SQL", clause)
	}
	if len(args) != 1 {
		t.Errorf("args = %v, want the raw value bound once", args)
	}
}
