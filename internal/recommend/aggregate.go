// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package recommend

import "strings"

// MaxStrength is the upper bound of an interaction strength (five stars).
const MaxStrength = 5.0

// AggregateOptions controls strength derivation.
type AggregateOptions struct {
	// WeightScale converts a weight into a strength when no rating is present.
	// Zero selects 0.5.
	WeightScale float64
}

// AggregateResult is the output of Aggregate.
type AggregateResult struct {
	// Interactions holds one entry per (user, product) pair in first-seen
	// order, valued by the last-seen record for the pair.
	Interactions []Interaction

	// Input is the number of raw records considered.
	Input int

	// Dropped is the number of malformed records discarded.
	Dropped int
}

type pairKey struct {
	user    string
	product string
}

// Aggregate deduplicates raw interactions per (user, product) pair. The
// strength of each record is derived before deduplication and the most
// recently observed record wins. Records missing a user or product id are
// counted in Dropped and otherwise ignored.
func Aggregate(raw []RawInteraction, opts AggregateOptions) AggregateResult {
	scale := opts.WeightScale
	if scale <= 0 {
		scale = 0.5
	}

	result := AggregateResult{Input: len(raw)}
	index := make(map[pairKey]int, len(raw))
	out := make([]Interaction, 0, len(raw))

	for i := range raw {
		r := &raw[i]
		user := strings.TrimSpace(r.UserID)
		product := strings.TrimSpace(r.ProductID)
		if user == "" || product == "" {
			result.Dropped++
			continue
		}

		strength := deriveStrength(r, scale)
		key := pairKey{user: user, product: product}
		if pos, ok := index[key]; ok {
			out[pos].Strength = strength
			continue
		}

		index[key] = len(out)
		out = append(out, Interaction{
			UserID:    user,
			ProductID: product,
			Strength:  strength,
		})
	}

	result.Interactions = out
	return result
}

// deriveStrength returns the explicit rating when one is present, otherwise
// the scaled implicit weight. Both are clipped to [0, MaxStrength].
func deriveStrength(r *RawInteraction, scale float64) float64 {
	if r.Rating > 0 {
		return clip(r.Rating, 0, MaxStrength)
	}

	weight := r.Weight
	if weight <= 0 && r.Action.Valid() {
		weight = r.Action.Weight(0)
	}
	return clip(weight*scale, 0, MaxStrength)
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
