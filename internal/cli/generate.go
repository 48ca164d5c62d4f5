// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/buyonix-recommender/internal/database"
	"github.com/tomtom215/buyonix-recommender/internal/logging"
	"github.com/tomtom215/buyonix-recommender/internal/recommend"
)

// seedBatchSize bounds the number of interactions written per transaction.
const seedBatchSize = 500

// generateOutput is printed by generate --write-db.
type generateOutput struct {
	Success      bool `json:"success"`
	Users        int  `json:"users"`
	Products     int  `json:"products"`
	Interactions int  `json:"interactions"`
}

func newGenerateCommand(a *app) *cobra.Command {
	var (
		synth   recommend.SyntheticConfig
		writeDB bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate reproducible synthetic interactions",
		Long: `Generate synthetic purchase records with star ratings. The same flags always
produce the same records.

Without --write-db the records are printed in the format train reads, so the
output can be piped straight into it. With --write-db the users, products and
interactions are written to the DuckDB interaction store instead.

Examples:
  recommendctl generate --users 10 --products 40 > interactions.json
  recommendctl generate --write-db --db ./buyonix.duckdb`,
		Args: cobra.NoArgs,
	}

	flags := cmd.Flags()
	flags.IntVar(&synth.Users, "users", 0, "number of users (default from RECOMMEND_DEFAULT_USERS)")
	flags.IntVar(&synth.Products, "products", 0, "number of products (default from RECOMMEND_DEFAULT_PRODUCTS)")
	flags.IntVar(&synth.Interactions, "interactions", 0, "number of records (default from RECOMMEND_SYNTHETIC_INTERACTIONS)")
	flags.Int64Var(&synth.Seed, "seed", 0, "random seed (default from RECOMMEND_SEED)")
	flags.BoolVar(&writeDB, "write-db", false, "write to the DuckDB interaction store instead of stdout")

	cmd.RunE = a.runE(func(cmd *cobra.Command, _ []string) (interface{}, error) {
		synth = a.syntheticDefaults(synth)
		if synth.Users < 1 || synth.Products < 1 || synth.Interactions < 1 {
			return nil, fmt.Errorf("%w: users, products and interactions must be positive", recommend.ErrInput)
		}

		records := recommend.GenerateSynthetic(synth)
		if !writeDB {
			return trainDocument(records), nil
		}

		db, release, err := a.openDatabase()
		if err != nil {
			return nil, err
		}
		defer release()

		if err := seedDatabase(cmd.Context(), db, synth, records); err != nil {
			return nil, err
		}

		logging.Info().
			Int("users", synth.Users).
			Int("products", synth.Products).
			Int("interactions", len(records)).
			Msg("Synthetic data written")

		return generateOutput{
			Success:      true,
			Users:        synth.Users,
			Products:     synth.Products,
			Interactions: len(records),
		}, nil
	})

	return cmd
}

// syntheticDefaults fills unset generator sizes from configuration.
func (a *app) syntheticDefaults(s recommend.SyntheticConfig) recommend.SyntheticConfig {
	rc := a.cfg.Recommend
	if s.Users == 0 {
		s.Users = rc.DefaultUsers
	}
	if s.Products == 0 {
		s.Products = rc.DefaultProducts
	}
	if s.Interactions == 0 {
		s.Interactions = rc.SyntheticInteractions
	}
	if s.Seed == 0 {
		s.Seed = rc.Seed
	}
	return s
}

// trainDocument wraps records in the document train reads.
func trainDocument(records []recommend.RawInteraction) trainInput {
	doc := trainInput{Interactions: make([]trainRecord, len(records))}
	for i := range records {
		doc.Interactions[i] = trainRecord{RawInteraction: records[i]}
	}
	return doc
}

// seedDatabase registers the synthetic catalog and users, then appends the
// interactions in batches.
func seedDatabase(ctx context.Context, db *database.DB, s recommend.SyntheticConfig, records []recommend.RawInteraction) error {
	for i := 1; i <= s.Products; i++ {
		p := database.Product{
			ID:       fmt.Sprintf("product_%d", i),
			Name:     fmt.Sprintf("Product %d", i),
			Category: "synthetic",
			Active:   true,
		}
		if err := db.UpsertProduct(ctx, p); err != nil {
			return err
		}
	}
	for i := 1; i <= s.Users; i++ {
		if err := db.UpsertUser(ctx, fmt.Sprintf("user_%d", i)); err != nil {
			return err
		}
	}

	for start := 0; start < len(records); start += seedBatchSize {
		end := min(start+seedBatchSize, len(records))
		if err := db.RecordInteractions(ctx, records[start:end]); err != nil {
			return fmt.Errorf("failed to write interactions: %w", err)
		}
	}
	return nil
}
