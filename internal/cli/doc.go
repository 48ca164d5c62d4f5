// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

// Package cli implements recommendctl, the offline companion of the
// recommendation server.
//
// Commands:
//
//	train      train a model from stdin JSON or from DuckDB (--from-db)
//	recommend  print the top n products for a user from the stored model
//	stats      describe the stored model
//	generate   emit synthetic interactions, or write them to DuckDB
//
// Every command writes one JSON document to stdout. A failure is written as
// {"success": false, "error": "..."} and the process exits with status 1.
// Logs go to stderr and are silenced by --quiet.
//
// The commands read the server's configuration and share its model store.
package cli
