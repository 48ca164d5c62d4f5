// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/buyonix-recommender/internal/logging"
	"github.com/tomtom215/buyonix-recommender/internal/recommend"
)

// errNoInteractions is reported when the training document is empty.
var errNoInteractions = errors.New("no interactions provided")

// trainInput is the document read from stdin by train.
type trainInput struct {
	Interactions []trainRecord `json:"interactions"`
}

// trainRecord accepts both the snake_case fields written by generate and
// the camelCase userId/productId of the storefront export.
type trainRecord struct {
	recommend.RawInteraction
	UserIDCamel    string `json:"userId,omitempty"`
	ProductIDCamel string `json:"productId,omitempty"`
}

func (r *trainRecord) toRaw() recommend.RawInteraction {
	raw := r.RawInteraction
	if raw.UserID == "" {
		raw.UserID = r.UserIDCamel
	}
	if raw.ProductID == "" {
		raw.ProductID = r.ProductIDCamel
	}
	return raw
}

// statsOutput is printed by train and stats.
type statsOutput struct {
	Success bool            `json:"success"`
	Stats   recommend.Stats `json:"stats"`
}

func newTrainCommand(a *app) *cobra.Command {
	var fromDB bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train and store a model",
		Long: `Train a new model version and persist it to the model store.

By default the interactions are read from stdin as
  {"interactions": [{"userId": "u1", "productId": "p1", "rating": 5}, ...]}
For duplicate (user, product) pairs the last record wins.

Examples:
  recommendctl train < interactions.json
  recommendctl generate --users 20 | recommendctl train
  recommendctl train --from-db --db ./buyonix.duckdb`,
		Args: cobra.NoArgs,
	}

	cmd.Flags().BoolVar(&fromDB, "from-db", false, "train from the interactions recorded in DuckDB instead of stdin")

	cmd.RunE = a.runE(func(cmd *cobra.Command, _ []string) (interface{}, error) {
		var (
			raw []recommend.RawInteraction
			err error
		)
		if fromDB {
			raw, err = a.fetchFromDatabase(cmd)
		} else {
			raw, err = readTrainInput(cmd.InOrStdin())
		}
		if err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			return nil, errNoInteractions
		}

		engine, release, err := a.openEngine(nil)
		if err != nil {
			return nil, err
		}
		defer release()

		if err := engine.TrainFrom(cmd.Context(), raw); err != nil {
			return nil, err
		}

		stats := engine.Stats()
		logging.Info().
			Int("version", stats.ModelVersion).
			Int("users", stats.NUsers).
			Int("products", stats.NProducts).
			Msg("Model trained")

		return statsOutput{Success: true, Stats: stats}, nil
	})

	return cmd
}

func readTrainInput(r io.Reader) ([]recommend.RawInteraction, error) {
	var input trainInput
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errNoInteractions
		}
		return nil, fmt.Errorf("invalid JSON input: %w", err)
	}

	raw := make([]recommend.RawInteraction, len(input.Interactions))
	for i := range input.Interactions {
		raw[i] = input.Interactions[i].toRaw()
	}
	return raw, nil
}

func (a *app) fetchFromDatabase(cmd *cobra.Command) ([]recommend.RawInteraction, error) {
	db, release, err := a.openDatabase()
	if err != nil {
		return nil, err
	}
	defer release()

	raw, err := db.FetchInteractions(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to read interactions: %w", err)
	}
	return raw, nil
}
