// Package engine runs the processdata pipeline: load the messages and categories
// files, clean the merged table, and save it to the target database.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/leapstack-labs/processdata/internal/categories"
	"github.com/leapstack-labs/processdata/internal/frame"
	"github.com/leapstack-labs/processdata/internal/state"
	"github.com/leapstack-labs/processdata/pkg/adapter"
)

// Defaults used when Config fields are empty.
const (
	DefaultTable    = "disaster_cat"
	DefaultIDColumn = "id"
	DefaultTarget   = "sqlite"
)

// Config holds engine configuration.
type Config struct {
	// MessagesPath is the messages CSV file.
	MessagesPath string
	// CategoriesPath is the categories CSV file.
	CategoriesPath string
	// DatabasePath is the destination database file.
	DatabasePath string

	// Target is the registered adapter name (default sqlite).
	Target string
	// Table is the destination table name (default disaster_cat).
	Table string
	// IDColumn is the join key present in both files (default id).
	IDColumn string
	// Settings are passed to the adapter on connect.
	Settings map[string]string

	// Categories configures the cleaner. Its Logger is replaced by the engine logger.
	Categories categories.Options

	// Out receives progress lines (default io.Discard).
	Out io.Writer
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
	// Inspect, if set, is called with the cleaned table before it is saved.
	Inspect func(*frame.Table) error
	// Recorder, if set, receives the start and outcome of the run.
	Recorder RunRecorder
}

// RunRecorder persists run history.
type RunRecorder interface {
	StartRun(ctx context.Context, run state.Run) error
	CompleteRun(ctx context.Context, id string, out state.Outcome) error
}

// Engine runs one Load -> Clean -> Save pass.
type Engine struct {
	cfg    Config
	out    io.Writer
	logger *slog.Logger
	runID  string
}

// Result describes a completed run.
type Result struct {
	RunID      string
	MergedRows int
	Rows       int
	Columns    []string
}

// New creates an engine. It fails if the target adapter is not registered.
func New(cfg Config) (*Engine, error) {
	if cfg.Target == "" {
		cfg.Target = DefaultTarget
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.IDColumn == "" {
		cfg.IDColumn = DefaultIDColumn
	}
	if !adapter.IsRegistered(cfg.Target) {
		return nil, &adapter.UnknownAdapterError{Type: cfg.Target, Available: adapter.ListAdapters()}
	}

	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	cfg.Categories.Logger = logger

	return &Engine{cfg: cfg, out: out, logger: logger, runID: runID}, nil
}

// RunID returns the identifier attached to this engine's log records.
func (e *Engine) RunID() string {
	return e.runID
}

// Run executes Load, Clean and Save in order, printing progress to Out.
// When a Recorder is configured the run is recorded before loading and its
// outcome after the last step, successful or not.
func (e *Engine) Run(ctx context.Context) (res *Result, err error) {
	if rec := e.cfg.Recorder; rec != nil {
		if err := rec.StartRun(ctx, state.Run{
			ID:             e.runID,
			MessagesPath:   e.cfg.MessagesPath,
			CategoriesPath: e.cfg.CategoriesPath,
			DatabasePath:   e.cfg.DatabasePath,
			Target:         e.cfg.Target,
			Table:          e.cfg.Table,
		}); err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
		defer func() {
			out := state.Outcome{Status: state.RunStatusCompleted}
			if res != nil {
				out.MergedRows, out.Rows = res.MergedRows, res.Rows
			}
			if err != nil {
				out.Status = state.RunStatusFailed
				out.Error = err.Error()
			}
			if cerr := rec.CompleteRun(context.WithoutCancel(ctx), e.runID, out); cerr != nil {
				e.logger.Warn("failed to record run outcome", "error", cerr)
			}
		}()
	}
	return e.run(ctx)
}

func (e *Engine) run(ctx context.Context) (*Result, error) {
	e.printf("Loading data...\n    MESSAGES: %s\n    CATEGORIES: %s\n", e.cfg.MessagesPath, e.cfg.CategoriesPath)
	merged, err := e.Load()
	if err != nil {
		return nil, err
	}

	e.printf("Cleaning data...\n")
	cleaned, err := e.Clean(merged)
	if err != nil {
		return nil, err
	}

	if e.cfg.Inspect != nil {
		if err := e.cfg.Inspect(cleaned); err != nil {
			return nil, err
		}
	}

	e.printf("Saving data...\n    DATABASE: %s\n", e.cfg.DatabasePath)
	if err := e.Save(ctx, cleaned); err != nil {
		return nil, err
	}

	e.printf("Cleaned data saved to database!\n")
	return &Result{
		RunID:      e.runID,
		MergedRows: merged.Len(),
		Rows:       cleaned.Len(),
		Columns:    cleaned.Names(),
	}, nil
}

func (e *Engine) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.out, format, args...)
}
