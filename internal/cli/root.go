// Package cli provides the command-line interface for processdata.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/processdata/internal/cli/config"
	"github.com/leapstack-labs/processdata/internal/engine"
	"github.com/leapstack-labs/processdata/internal/frame"
	"github.com/leapstack-labs/processdata/internal/state"

	// Register the database targets.
	_ "github.com/leapstack-labs/processdata/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/processdata/pkg/adapters/sqlite"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// UsageMessage is printed when the command is not given exactly three paths.
const UsageMessage = "Please provide the filepaths of the messages and categories " +
	"datasets as the first and second argument respectively, as " +
	"well as the filepath of the database to save the cleaned data " +
	"to as the third argument. \n\nExample: processdata " +
	"disaster_messages.csv disaster_categories.csv " +
	"DisasterResponse.db"

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "processdata MESSAGES CATEGORIES DATABASE",
		Short: "Merge, clean and store disaster response messages",
		Long: `processdata merges a messages CSV with its categories CSV on the id column,
expands the packed categories ("related-1;offer-0;...") into one integer column
per category, removes duplicate rows, and writes the result to the disaster_cat
table of a database file, replacing any previous table.`,
		Example: `  processdata disaster_messages.csv disaster_categories.csv DisasterResponse.db

  # Preview the first rows of the cleaned table before saving
  processdata --preview 5 messages.csv categories.csv out.db

  # Write to DuckDB instead of SQLite
  processdata --target duckdb messages.csv categories.csv out.duckdb`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip config loading for help and usage-only invocations
			if cmd.Name() == "help" || len(args) != 3 {
				return nil
			}

			cfg, used, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if used != "" {
				logger.Debug("using config file", "path", used)
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), UsageMessage)
				return nil
			}
			return runProcess(cmd, args[0], args[1], args[2])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} {{.Version}} (commit %s, built %s)\n", GitCommit, BuildDate))

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./processdata.yaml)")
	flags.String("target", "", "Database target (sqlite|duckdb)")
	flags.String("table", "", "Destination table name (default: disaster_cat)")
	flags.String("id-column", "", "Join key present in both files (default: id)")
	flags.Bool("strict-categories", false, "Fail when a row's category names differ from the first row")
	flags.Int("preview", 0, "Print the first N cleaned rows before saving")
	flags.String("state", "", "Record run history in this SQLite file (default: disabled)")
	flags.BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("target", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"sqlite", "duckdb"}, cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd
}

func runProcess(cmd *cobra.Command, messages, categories, database string) (err error) {
	cfg := GetConfig(cmd.Context())
	logger := GetLogger(cmd.Context())
	out := cmd.OutOrStdout()

	engCfg := engine.Config{
		MessagesPath:   messages,
		CategoriesPath: categories,
		DatabasePath:   database,
		Target:         cfg.Target,
		Table:          cfg.Table,
		IDColumn:       cfg.IDColumn,
		Settings:       cfg.Settings,
		Categories:     cfg.CategoryOptions(),
		Out:            out,
		Logger:         logger,
	}
	if cfg.Preview > 0 {
		engCfg.Inspect = func(t *frame.Table) error {
			return RenderPreview(out, t, cfg.Preview)
		}
	}

	if cfg.StatePath != "" {
		store, serr := openStateStore(cmd.Context(), cfg.StatePath, logger)
		if serr != nil {
			return serr
		}
		defer func() {
			logRecentRuns(cmd.Context(), store, logger)
			if cerr := store.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close state store: %w", cerr)
			}
		}()
		engCfg.Recorder = store
	}

	eng, err := engine.New(engCfg)
	if err != nil {
		return err
	}

	res, err := eng.Run(cmd.Context())
	if err != nil {
		return err
	}
	logger.Debug("run complete", "run_id", res.RunID, "merged_rows", res.MergedRows, "rows", res.Rows, "columns", len(res.Columns))
	return nil
}

// openStateStore opens and migrates the run history database.
func openStateStore(ctx context.Context, path string, logger *slog.Logger) (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore(logger)
	if err := store.Open(ctx, path); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate state store: %w", err)
	}

	version, err := store.GetMigrationVersion(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to read state store version: %w", err)
	}
	logger.Debug("state store ready", "path", path, "migration_version", version)
	return store, nil
}

// recentRunsLimit is how many runs are logged after each recorded run.
const recentRunsLimit = 5

// logRecentRuns logs the latest recorded runs at debug level.
func logRecentRuns(ctx context.Context, store *state.SQLiteStore, logger *slog.Logger) {
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	runs, err := store.ListRuns(context.WithoutCancel(ctx), recentRunsLimit)
	if err != nil {
		logger.Warn("failed to list recent runs", "error", err)
		return
	}
	for _, r := range runs {
		logger.Debug("recent run",
			"id", r.ID,
			"status", string(r.Status),
			"rows", r.Rows,
			"started_at", r.StartedAt.Format(time.RFC3339),
		)
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return &config.Config{
		Target:   config.DefaultTarget,
		Table:    config.DefaultTable,
		IDColumn: config.DefaultIDColumn,
	}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// newLogger logs to w at debug level when verbose, warn otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
