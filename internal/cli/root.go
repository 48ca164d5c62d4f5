// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/buyonix-recommender/internal/config"
	"github.com/tomtom215/buyonix-recommender/internal/database"
	"github.com/tomtom215/buyonix-recommender/internal/logging"
	"github.com/tomtom215/buyonix-recommender/internal/recommend"
	"github.com/tomtom215/buyonix-recommender/internal/recommend/storage"
)

// options are the persistent flags shared by every command.
type options struct {
	modelPath string
	backend   string
	dbPath    string
	quiet     bool
}

// app carries the streams and the loaded configuration into each command.
type app struct {
	in   io.Reader
	out  io.Writer
	opts options
	cfg  *config.Config
}

// errorOutput is written to stdout when a command fails.
type errorOutput struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewRootCommand builds the recommendctl command tree. Command results are
// written to out as a single JSON document; logs go to the command's error
// stream.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	root := &cobra.Command{
		Use:   "recommendctl",
		Short: "Train and query the Buyonix collaborative filtering model",
		Long: `recommendctl trains, inspects and queries the product recommendation model
without running the HTTP server. It shares the server's configuration
(environment variables and config.yaml) and model store.

Every command prints one JSON document on stdout. Failures print
{"success": false, "error": "..."} and exit with status 1.

Example usage:
  recommendctl generate | recommendctl train     # Bootstrap from synthetic data
  recommendctl train --from-db                   # Train from recorded interactions
  recommendctl recommend user_1 5                # Top 5 products for user_1
  recommendctl stats                             # Describe the stored model`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(in)
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.modelPath, "model-path", "", "model store location (default from MODEL_PATH)")
	flags.StringVar(&a.opts.backend, "store", "", "model store backend: file or badger (default from MODEL_STORE_BACKEND)")
	flags.StringVar(&a.opts.dbPath, "db", "", "DuckDB interaction store (default from DUCKDB_PATH)")
	flags.BoolVarP(&a.opts.quiet, "quiet", "q", false, "suppress log output")

	root.AddCommand(
		newTrainCommand(a),
		newRecommendCommand(a),
		newStatsCommand(a),
		newGenerateCommand(a),
	)

	return root
}

// Execute runs the CLI against the process streams and exits non-zero on
// failure. SIGINT and SIGTERM cancel the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := NewRootCommand(os.Stdin, os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, applies flag overrides and configures logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return a.fail(fmt.Errorf("failed to load config: %w", err))
	}

	if a.opts.modelPath != "" {
		cfg.Recommend.ModelPath = a.opts.modelPath
	}
	if a.opts.backend != "" {
		cfg.Recommend.StoreBackend = a.opts.backend
	}
	if a.opts.dbPath != "" {
		cfg.Database.Path = a.opts.dbPath
	}

	level := cfg.Logging.Level
	if a.opts.quiet {
		level = "disabled"
	}
	logging.Init(logging.Config{
		Level:     level,
		Format:    "console",
		Timestamp: true,
		Service:   "recommendctl",
		Output:    cmd.ErrOrStderr(),
	})

	a.cfg = cfg
	return nil
}

// runE adapts a command body to cobra: the result is printed as JSON and an
// error is printed as an errorOutput before being returned.
func (a *app) runE(fn func(cmd *cobra.Command, args []string) (interface{}, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		result, err := fn(cmd, args)
		if err != nil {
			return a.fail(err)
		}
		return a.print(result)
	}
}

func (a *app) print(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (a *app) fail(err error) error {
	_ = a.print(errorOutput{Success: false, Error: err.Error()}) //nolint:errcheck // the command error is what matters
	return err
}

// openEngine opens the model store and builds an engine on top of it.
// source may be nil. The returned function releases the store.
func (a *app) openEngine(source recommend.InteractionSource) (*recommend.Engine, func(), error) {
	store, err := storage.Open(a.cfg.Recommend.StoreBackend, a.cfg.Recommend.ModelPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open model store: %w", err)
	}
	release := func() {
		if err := store.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing model store")
		}
	}

	engine, err := recommend.NewEngine(a.cfg.Recommend.EngineConfig(), source, store, logging.Logger())
	if err != nil {
		release()
		return nil, nil, err
	}
	return engine, release, nil
}

// openDatabase opens the DuckDB interaction store.
func (a *app) openDatabase() (*database.DB, func(), error) {
	db, err := database.New(&a.cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open interaction store: %w", err)
	}
	return db, func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing database")
		}
	}, nil
}
