// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/buyonix-recommender/internal/recommend"
)

// recommendOutput is printed by recommend.
type recommendOutput struct {
	Success         bool                       `json:"success"`
	UserID          string                     `json:"user_id"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

func newRecommendCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <user_id> [n]",
		Short: "Recommend products for a user",
		Long: `Load the latest stored model and print the top n products the user has not
rated yet, best first. n defaults to RECOMMEND_DEFAULT_N. An unknown user
gets an empty list.

Examples:
  recommendctl recommend user_1
  recommendctl recommend user_1 10`,
		Args: cobra.RangeArgs(1, 2),
	}

	cmd.RunE = a.runE(func(cmd *cobra.Command, args []string) (interface{}, error) {
		userID := args[0]
		n := 0
		if len(args) == 2 {
			v, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, fmt.Errorf("%w: n must be an integer, got %q", recommend.ErrInput, args[1])
			}
			n = v
		}

		engine, release, err := a.openEngine(nil)
		if err != nil {
			return nil, err
		}
		defer release()

		if err := engine.LoadStored(cmd.Context()); err != nil {
			return nil, err
		}

		recs, err := engine.Recommend(cmd.Context(), userID, n)
		if err != nil {
			return nil, err
		}
		if recs == nil {
			recs = []recommend.Recommendation{}
		}

		return recommendOutput{Success: true, UserID: userID, Recommendations: recs}, nil
	})

	return cmd
}

func newStatsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Describe the stored model",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = a.runE(func(cmd *cobra.Command, _ []string) (interface{}, error) {
		engine, release, err := a.openEngine(nil)
		if err != nil {
			return nil, err
		}
		defer release()

		if err := engine.LoadStored(cmd.Context()); err != nil {
			return nil, err
		}
		return statsOutput{Success: true, Stats: engine.Stats()}, nil
	})

	return cmd
}
