// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/buyonix-recommender/internal/database"
	"github.com/tomtom215/buyonix-recommender/internal/recommend"
)

func TestRecordInteractions(t *testing.T) {
	ts := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       interface{}
		store      *mockStore
		wantStatus int
		wantCode   string
		wantStored int
	}{
		{
			name: "valid batch",
			body: map[string]interface{}{"interactions": []map[string]interface{}{
				{"user_id": "u1", "product_id": "p1", "action": "purchase", "rating": 5, "timestamp": ts},
				{"user_id": "u2", "product_id": "p1", "action": "view"},
				{"user_id": "u2", "product_id": "p2"},
			}},
			store:      &mockStore{},
			wantStatus: http.StatusCreated,
			wantStored: 3,
		},
		{
			name:       "empty batch",
			body:       map[string]interface{}{"interactions": []interface{}{}},
			store:      &mockStore{},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name: "unknown action",
			body: map[string]interface{}{"interactions": []map[string]interface{}{
				{"user_id": "u1", "product_id": "p1", "action": "wishlist"},
			}},
			store:      &mockStore{},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name: "rating out of range",
			body: map[string]interface{}{"interactions": []map[string]interface{}{
				{"user_id": "u1", "product_id": "p1", "rating": 9},
			}},
			store:      &mockStore{},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name: "missing product",
			body: map[string]interface{}{"interactions": []map[string]interface{}{
				{"user_id": "u1"},
			}},
			store:      &mockStore{},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name:       "malformed json",
			body:       `{"interactions": [`,
			store:      &mockStore{},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name: "store rejects record",
			body: map[string]interface{}{"interactions": []map[string]interface{}{
				{"user_id": "u1", "product_id": "p1"},
			}},
			store:      &mockStore{recordErr: fmt.Errorf("record 0: %w", database.ErrInvalidInteraction)},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name: "database failure",
			body: map[string]interface{}{"interactions": []map[string]interface{}{
				{"user_id": "u1", "product_id": "p1"},
			}},
			store:      &mockStore{recordErr: errors.New("disk full")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeDatabaseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(newTestHandler(&mockEngine{}, tt.store))
			w, env := doRequest(t, srv, http.MethodPost, "/api/v1/interactions", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode != "" && (env.Error == nil || env.Error.Code != tt.wantCode) {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
			if len(tt.store.recorded) != tt.wantStored {
				t.Errorf("stored = %d, want %d", len(tt.store.recorded), tt.wantStored)
			}
		})
	}
}

func TestRecordInteractions_ConvertsFields(t *testing.T) {
	ts := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	store := &mockStore{}
	srv := newTestServer(newTestHandler(&mockEngine{}, store))

	body := map[string]interface{}{"interactions": []map[string]interface{}{
		{"user_id": "u1", "product_id": "p1", "action": "purchase", "rating": 4, "timestamp": ts},
		{"user_id": "u1", "product_id": "p2", "weight": 2.5},
	}}
	w, _ := doRequest(t, srv, http.MethodPost, "/api/v1/interactions", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	first := store.recorded[0]
	if first.Action != recommend.ActionPurchase || first.Rating != 4 || !first.Timestamp.Equal(ts) {
		t.Errorf("first record = %+v", first)
	}
	second := store.recorded[1]
	if second.Weight != 2.5 {
		t.Errorf("weight = %v, want 2.5", second.Weight)
	}
	if second.Timestamp.IsZero() {
		t.Error("missing timestamp should be stamped with the receive time")
	}
}

func TestRecordInteractions_BodyTooLarge(t *testing.T) {
	srv := newTestServer(newTestHandler(&mockEngine{}, &mockStore{}))

	huge := `{"interactions":[{"user_id":"` + strings.Repeat("u", maxRequestBodySize) + `"}]}`
	w, env := doRequest(t, srv, http.MethodPost, "/api/v1/interactions", huge)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeBadRequest {
		t.Errorf("error = %+v, want %s", env.Error, ErrCodeBadRequest)
	}
}

func TestListInteractions(t *testing.T) {
	t.Run("filters are forwarded", func(t *testing.T) {
		store := &mockStore{listed: []recommend.RawInteraction{
			{UserID: "u1", ProductID: "p1", Action: recommend.ActionView, Weight: 1},
		}}
		srv := newTestServer(newTestHandler(&mockEngine{}, store))

		target := "/api/v1/interactions?users=u1,u2&actions=view,purchase&since=2026-01-01T00:00:00Z&limit=50"
		w, env := doRequest(t, srv, http.MethodGet, target, nil, withAdmin())
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}

		f := store.lastFilter
		if len(f.Users) != 2 || len(f.Actions) != 2 || f.Limit != 50 {
			t.Errorf("filter = %+v", f)
		}
		if f.Since == nil || !f.Since.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("since = %v", f.Since)
		}
		if f.Until != nil {
			t.Errorf("until = %v, want nil", f.Until)
		}

		var got []recommend.RawInteraction
		decodeData(t, env, &got)
		if len(got) != 1 {
			t.Errorf("interactions = %d, want 1", len(got))
		}
	})

	t.Run("default limit and empty result", func(t *testing.T) {
		store := &mockStore{}
		srv := newTestServer(newTestHandler(&mockEngine{}, store))

		w, env := doRequest(t, srv, http.MethodGet, "/api/v1/interactions", nil, withAdmin())
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if store.lastFilter.Limit != defaultListLimit {
			t.Errorf("limit = %d, want %d", store.lastFilter.Limit, defaultListLimit)
		}
		if string(env.Data) != "[]" {
			t.Errorf("data = %s, want []", string(env.Data))
		}
	})

	invalid := []struct {
		name  string
		query string
	}{
		{"bad since", "?since=yesterday"},
		{"bad action", "?actions=view,wishlist"},
		{"limit too large", "?limit=20000"},
		{"non-integer limit", "?limit=all"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(newTestHandler(&mockEngine{}, &mockStore{}))
			w, _ := doRequest(t, srv, http.MethodGet, "/api/v1/interactions"+tt.query, nil, withAdmin())
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}

	t.Run("requires admin token", func(t *testing.T) {
		srv := newTestServer(newTestHandler(&mockEngine{}, &mockStore{}))
		w, _ := doRequest(t, srv, http.MethodGet, "/api/v1/interactions", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}

func TestUpsertProduct(t *testing.T) {
	inactive := false

	tests := []struct {
		name       string
		target     string
		body       interface{}
		store      *mockStore
		wantStatus int
		wantActive bool
	}{
		{"new product defaults to active", "/api/v1/products/p1", ProductRequest{Name: "Lamp", Category: "home", Price: 19.99}, &mockStore{}, http.StatusOK, true},
		{"delist", "/api/v1/products/p1", ProductRequest{Name: "Lamp", Active: &inactive}, &mockStore{}, http.StatusOK, false},
		{"negative price", "/api/v1/products/p1", ProductRequest{Price: -1}, &mockStore{}, http.StatusBadRequest, false},
		{"bad id", "/api/v1/products/bad%20id", ProductRequest{Name: "Lamp"}, &mockStore{}, http.StatusBadRequest, false},
		{"database failure", "/api/v1/products/p1", ProductRequest{Name: "Lamp"}, &mockStore{upsertErr: errors.New("locked")}, http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(newTestHandler(&mockEngine{}, tt.store))
			w, env := doRequest(t, srv, http.MethodPut, tt.target, tt.body, withAdmin())

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var p database.Product
			decodeData(t, env, &p)
			if p.ID != "p1" || p.Active != tt.wantActive {
				t.Errorf("product = %+v, want id p1 active %v", p, tt.wantActive)
			}
			if len(tt.store.products) != 1 {
				t.Errorf("stored products = %d, want 1", len(tt.store.products))
			}
		})
	}
}
