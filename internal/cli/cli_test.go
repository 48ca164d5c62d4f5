// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/buyonix-recommender/internal/recommend"
)

// runCLI executes recommendctl with args and returns stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCommand(strings.NewReader(stdin), &out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--quiet"))
	err := cmd.Execute()
	return out.String(), err
}

func decodeOutput(t *testing.T, out string, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(out), dst); err != nil {
		t.Fatalf("failed to decode output %q: %v", out, err)
	}
}

// storefrontExport builds a train document in the camelCase export format.
func storefrontExport(users, products int) string {
	var b strings.Builder
	b.WriteString(`{"interactions":[`)
	first := true
	for u := 1; u <= users; u++ {
		for p := 1; p <= products; p++ {
			if (u+p)%3 == 0 {
				continue
			}
			if !first {
				b.WriteString(",")
			}
			first = false
			fmt.Fprintf(&b, `{"userId":"shopper_%d","productId":"sku_%d","rating":%d}`, u, p, (u*p)%5+1)
		}
	}
	b.WriteString("]}")
	return b.String()
}

func TestTrainRecommendStats(t *testing.T) {
	models := t.TempDir()

	out, err := runCLI(t, storefrontExport(4, 6), "train", "--model-path", models)
	if err != nil {
		t.Fatalf("train error = %v (output %s)", err, out)
	}
	var trained statsOutput
	decodeOutput(t, out, &trained)
	if !trained.Success || trained.Stats.Status != recommend.StatusTrained {
		t.Fatalf("train output = %+v", trained)
	}
	if trained.Stats.NUsers != 4 || trained.Stats.NProducts != 6 {
		t.Errorf("dimensions = %d users / %d products, want 4 / 6", trained.Stats.NUsers, trained.Stats.NProducts)
	}
	if trained.Stats.DataSource != recommend.SourceReal || trained.Stats.ModelVersion != 1 {
		t.Errorf("source = %q version = %d, want real v1", trained.Stats.DataSource, trained.Stats.ModelVersion)
	}

	out, err = runCLI(t, "", "recommend", "shopper_1", "3", "--model-path", models)
	if err != nil {
		t.Fatalf("recommend error = %v (output %s)", err, out)
	}
	var recs recommendOutput
	decodeOutput(t, out, &recs)
	if !recs.Success || recs.UserID != "shopper_1" {
		t.Errorf("recommend output = %+v", recs)
	}
	if len(recs.Recommendations) == 0 || len(recs.Recommendations) > 3 {
		t.Fatalf("recommendations = %v, want 1..3", recs.Recommendations)
	}
	for i := 1; i < len(recs.Recommendations); i++ {
		if recs.Recommendations[i].PredictedRating > recs.Recommendations[i-1].PredictedRating {
			t.Errorf("recommendations not sorted: %v", recs.Recommendations)
		}
	}
	// shopper_1 rated every sku except those where (1+p)%3 == 0.
	for _, r := range recs.Recommendations {
		if r.ProductID != "sku_2" && r.ProductID != "sku_5" {
			t.Errorf("recommended already rated product %s", r.ProductID)
		}
	}

	out, err = runCLI(t, "", "stats", "--model-path", models)
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	var stats statsOutput
	decodeOutput(t, out, &stats)
	if stats.Stats.DataSource != recommend.SourceStored || stats.Stats.ModelVersion != 1 {
		t.Errorf("stats = %+v, want stored v1", stats.Stats)
	}
	if !stats.Stats.TrainingDate.Equal(trained.Stats.TrainingDate) {
		t.Errorf("training date = %v, want %v", stats.Stats.TrainingDate, trained.Stats.TrainingDate)
	}
}

func TestRecommend_UnknownUser(t *testing.T) {
	models := t.TempDir()
	if _, err := runCLI(t, storefrontExport(3, 4), "train", "--model-path", models); err != nil {
		t.Fatalf("train error = %v", err)
	}

	out, err := runCLI(t, "", "recommend", "stranger", "--model-path", models)
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}
	if !strings.Contains(out, `"recommendations": []`) {
		t.Errorf("output = %s, want an empty list", out)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "train with empty stdin",
			args:    []string{"train"},
			wantErr: errNoInteractions,
		},
		{
			name:    "train with empty list",
			stdin:   `{"interactions": []}`,
			args:    []string{"train"},
			wantErr: errNoInteractions,
		},
		{
			name:    "train with invalid json",
			stdin:   `{"interactions": [`,
			args:    []string{"train"},
			wantMsg: "invalid JSON input",
		},
		{
			name:    "train with only malformed records",
			stdin:   `{"interactions": [{"rating": 4}]}`,
			args:    []string{"train"},
			wantErr: recommend.ErrInput,
		},
		{
			name:    "recommend before training",
			args:    []string{"recommend", "user_1"},
			wantErr: recommend.ErrModelNotFound,
		},
		{
			name:    "stats before training",
			args:    []string{"stats"},
			wantErr: recommend.ErrModelNotFound,
		},
		{
			name:    "recommend with non-integer n",
			args:    []string{"recommend", "user_1", "five"},
			wantErr: recommend.ErrInput,
		},
		{
			name:    "unknown store backend",
			args:    []string{"stats", "--store", "postgres"},
			wantMsg: "unknown model store backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--model-path", t.TempDir())
			out, err := runCLI(t, tt.stdin, args...)
			if err == nil {
				t.Fatalf("expected error, got output %s", out)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want message containing %q", err, tt.wantMsg)
			}

			var failure errorOutput
			decodeOutput(t, out, &failure)
			if failure.Success || failure.Error == "" {
				t.Errorf("failure output = %+v", failure)
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	args := []string{"generate", "--users", "3", "--products", "7", "--interactions", "50", "--seed", "9"}

	first, err := runCLI(t, "", args...)
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	second, err := runCLI(t, "", args...)
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if first != second {
		t.Error("generate output differs between runs with the same seed")
	}

	var doc trainInput
	decodeOutput(t, first, &doc)
	if len(doc.Interactions) != 50 {
		t.Fatalf("interactions = %d, want 50", len(doc.Interactions))
	}
	if strings.Contains(first, "userId") {
		t.Error("generate output should use snake_case ids only")
	}
	for _, r := range doc.Interactions {
		if r.Rating < 1 || r.Rating > 5 || r.Action != recommend.ActionPurchase {
			t.Fatalf("unexpected record %+v", r.RawInteraction)
		}
	}
}

func TestGenerate_PipesIntoTrain(t *testing.T) {
	models := t.TempDir()

	generated, err := runCLI(t, "", "generate", "--users", "5", "--products", "12", "--interactions", "300")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}

	out, err := runCLI(t, generated, "train", "--model-path", models, "--store", "badger")
	if err != nil {
		t.Fatalf("train error = %v (output %s)", err, out)
	}
	var trained statsOutput
	decodeOutput(t, out, &trained)
	if trained.Stats.NUsers != 5 {
		t.Errorf("users = %d, want 5", trained.Stats.NUsers)
	}
	if trained.Stats.NProducts < 1 || trained.Stats.NProducts > 12 {
		t.Errorf("products = %d, want 1..12", trained.Stats.NProducts)
	}

	out, err = runCLI(t, "", "stats", "--model-path", models, "--store", "badger")
	if err != nil {
		t.Fatalf("stats from badger store error = %v (output %s)", err, out)
	}
}

func TestGenerate_WriteDBThenTrainFromDB(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "buyonix.duckdb")
	models := filepath.Join(dir, "models")

	out, err := runCLI(t, "", "generate", "--write-db", "--db", dbPath,
		"--users", "4", "--products", "9", "--interactions", "120")
	if err != nil {
		t.Fatalf("generate --write-db error = %v (output %s)", err, out)
	}
	var written generateOutput
	decodeOutput(t, out, &written)
	if !written.Success || written.Interactions != 120 || written.Users != 4 || written.Products != 9 {
		t.Errorf("generate output = %+v", written)
	}

	out, err = runCLI(t, "", "train", "--from-db", "--db", dbPath, "--model-path", models)
	if err != nil {
		t.Fatalf("train --from-db error = %v (output %s)", err, out)
	}
	var trained statsOutput
	decodeOutput(t, out, &trained)
	if trained.Stats.NUsers != 4 || trained.Stats.DataSource != recommend.SourceReal {
		t.Errorf("stats = %+v, want 4 users from real data", trained.Stats)
	}
}

func TestTrainRecord_ToRaw(t *testing.T) {
	tests := []struct {
		name        string
		rec         trainRecord
		wantUser    string
		wantProduct string
	}{
		{"snake case", trainRecord{RawInteraction: recommend.RawInteraction{UserID: "u1", ProductID: "p1"}}, "u1", "p1"},
		{"camel case", trainRecord{UserIDCamel: "u2", ProductIDCamel: "p2"}, "u2", "p2"},
		{"snake case wins", trainRecord{RawInteraction: recommend.RawInteraction{UserID: "u3"}, UserIDCamel: "x", ProductIDCamel: "p3"}, "u3", "p3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := tt.rec.toRaw()
			if raw.UserID != tt.wantUser || raw.ProductID != tt.wantProduct {
				t.Errorf("toRaw() = %s/%s, want %s/%s", raw.UserID, raw.ProductID, tt.wantUser, tt.wantProduct)
			}
		})
	}
}
