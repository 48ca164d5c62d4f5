// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

// Package logging provides the process-wide zerolog logger for the
// recommender service and its CLI.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Model training failed")
//
//	// Request-scoped fields (request_id, correlation_id)
//	logging.Ctx(ctx).Info().Str("user_id", userID).Msg("Recommendations served")
//
// # Component Loggers
//
// Long-lived components receive a zerolog.Logger at construction time and
// derive a child logger with a component field:
//
//	engine, _ := recommend.NewEngine(cfg, source, store, logging.WithComponent("recommend"))
//
// # Configuration
//
// The logging section of the service configuration maps onto Config:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file and line (default: false)
//
// # slog Bridge
//
// SlogHandler adapts zerolog to log/slog for libraries that only accept an
// *slog.Logger, such as sutureslog in the supervisor tree.
//
// # Rules
//
// Always terminate an event with Msg or Send, and prefer typed fields over
// Msgf formatting.
package logging
