// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/buyonix-recommender/internal/upstream"
	"github.com/tomtom215/buyonix-recommender/internal/visual"
)

func TestVisualSimilar(t *testing.T) {
	matches := []visual.Match{
		{ProductID: "p2", Similarity: 0.98},
		{ProductID: "p7", Similarity: 0.81},
	}

	tests := []struct {
		name       string
		searcher   *mockVisual
		body       interface{}
		wantStatus int
		wantCode   string
		wantCount  int
	}{
		{
			name:       "matches from stored embeddings",
			searcher:   &mockVisual{matches: matches},
			body:       VisualSearchRequest{Image: "data:image/png;base64,AAAA", TopN: 2},
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name:       "no matches",
			searcher:   &mockVisual{},
			body:       VisualSearchRequest{Image: "data:image/png;base64,AAAA"},
			wantStatus: http.StatusOK,
			wantCount:  0,
		},
		{
			name:       "missing image",
			searcher:   &mockVisual{},
			body:       VisualSearchRequest{},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name:       "top_n too large",
			searcher:   &mockVisual{},
			body:       VisualSearchRequest{Image: "x", TopN: 500},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name:       "extractor fails",
			searcher:   &mockVisual{err: fmt.Errorf("%w: status 502", visual.ErrExtraction)},
			body:       VisualSearchRequest{Image: "x"},
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrCodeExternalServiceFail,
		},
		{
			name: "extractor rejects image",
			searcher: &mockVisual{err: fmt.Errorf("%w: %w: status 400: cannot identify image file",
				visual.ErrExtraction, visual.ErrImageRejected)},
			body:       VisualSearchRequest{Image: "garbage"},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name: "circuit open",
			searcher: &mockVisual{err: fmt.Errorf("%w: %w", visual.ErrExtraction,
				fmt.Errorf("%w: %s", upstream.ErrCircuitOpen, visual.ExtractorBreakerName))},
			body:       VisualSearchRequest{Image: "x"},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrCodeServiceUnavailable,
		},
		{
			name:       "blank image reaches extractor",
			searcher:   &mockVisual{err: visual.ErrNoImage},
			body:       VisualSearchRequest{Image: " "},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(newTestHandler(&mockEngine{}, &mockStore{}, WithVisualSearch(tt.searcher)))
			w, env := doRequest(t, srv, http.MethodPost, "/api/v1/visual/similar", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
				}
				return
			}

			var resp VisualSearchResponse
			decodeData(t, env, &resp)
			if resp.Matches == nil || len(resp.Matches) != tt.wantCount {
				t.Errorf("matches = %v, want %d", resp.Matches, tt.wantCount)
			}
		})
	}
}

func TestVisualSimilar_CallerCandidates(t *testing.T) {
	searcher := &mockVisual{}
	srv := newTestServer(newTestHandler(&mockEngine{}, &mockStore{}, WithVisualSearch(searcher)))

	body := VisualSearchRequest{
		Image: "x",
		TopN:  1,
		Candidates: []CandidateInput{
			{ProductID: "p1", Embedding: []float64{1, 0}},
			{ProductID: "p2", Embedding: []float64{0, 1}},
		},
	}
	w, _ := doRequest(t, srv, http.MethodPost, "/api/v1/visual/similar", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if searcher.lastOpts.TopN != 1 || len(searcher.lastOpts.Candidates) != 2 {
		t.Errorf("search options = %+v", searcher.lastOpts)
	}
	if searcher.lastOpts.Candidates[1].ProductID != "p2" {
		t.Errorf("candidate order not preserved: %+v", searcher.lastOpts.Candidates)
	}
}

func TestVisualDisabled(t *testing.T) {
	srv := newTestServer(newTestHandler(&mockEngine{}, &mockStore{}))

	targets := []string{
		"/api/v1/visual/similar",
		"/api/v1/visual/products/p1/embedding",
	}
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			w, env := doRequest(t, srv, http.MethodPost, target, VisualSearchRequest{Image: "x"}, withAdmin())
			if w.Code != http.StatusServiceUnavailable {
				t.Fatalf("status = %d, want 503", w.Code)
			}
			if env.Error == nil || env.Error.Code != ErrCodeVisualDisabled {
				t.Errorf("error = %+v, want %s", env.Error, ErrCodeVisualDisabled)
			}
		})
	}
}

func TestStoreProductEmbedding(t *testing.T) {
	t.Run("stores extracted embedding", func(t *testing.T) {
		store := &mockStore{}
		searcher := &mockVisual{embedding: []float64{0.1, 0.2, 0.3}}
		srv := newTestServer(newTestHandler(&mockEngine{}, store, WithVisualSearch(searcher)))

		w, env := doRequest(t, srv, http.MethodPost, "/api/v1/visual/products/p1/embedding",
			map[string]string{"image": "https://cdn.example.com/p1.jpg"}, withAdmin())
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
		}

		var resp EmbeddingResponse
		decodeData(t, env, &resp)
		if resp.ProductID != "p1" || resp.Dimensions != 3 {
			t.Errorf("response = %+v", resp)
		}
		if len(store.embeddings["p1"]) != 3 {
			t.Errorf("stored embedding = %v", store.embeddings["p1"])
		}
	})

	t.Run("requires admin token", func(t *testing.T) {
		srv := newTestServer(newTestHandler(&mockEngine{}, &mockStore{}, WithVisualSearch(&mockVisual{})))
		w, _ := doRequest(t, srv, http.MethodPost, "/api/v1/visual/products/p1/embedding", map[string]string{"image": "x"})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("database failure", func(t *testing.T) {
		store := &mockStore{embeddingErr: errors.New("io error")}
		searcher := &mockVisual{embedding: []float64{1}}
		srv := newTestServer(newTestHandler(&mockEngine{}, store, WithVisualSearch(searcher)))

		w, _ := doRequest(t, srv, http.MethodPost, "/api/v1/visual/products/p1/embedding",
			map[string]string{"image": "x"}, withAdmin())
		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
	})
}
