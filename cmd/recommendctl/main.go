// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

// Command recommendctl trains and queries the recommendation model from the
// command line. See internal/cli for the command reference.
package main

import "github.com/tomtom215/buyonix-recommender/internal/cli"

func main() {
	cli.Execute()
}
