// Package sqlite provides the SQLite database adapter for processdata.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/leapstack-labs/processdata/internal/frame"
	"github.com/leapstack-labs/processdata/pkg/adapter"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// Name is the registered adapter name.
const Name = "sqlite"

var sqliteDialect = &adapter.Dialect{
	Name:      Name,
	IntType:   "INTEGER",
	FloatType: "REAL",
	TextType:  "TEXT",
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// Connect opens the SQLite file at cfg.Path, creating it if needed.
// Use ":memory:" (or an empty path) for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps :memory: databases alive across statements.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	a.DB = db
	a.Cfg = cfg

	keys := make([]string, 0, len(cfg.Settings))
	for k := range cfg.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := a.Exec(ctx, fmt.Sprintf("PRAGMA %s = %s", k, cfg.Settings[k])); err != nil {
			_ = a.Close()
			return fmt.Errorf("failed to apply pragma %s: %w", k, err)
		}
	}

	a.Logger.Debug("connected", "adapter", Name, "path", path)
	return nil
}

// ReplaceTable drops and recreates the named table holding t.
func (a *Adapter) ReplaceTable(ctx context.Context, name string, t *frame.Table) error {
	return a.ReplaceTableCommon(ctx, sqliteDialect, name, t)
}

// Dialect returns the SQLite dialect.
func (a *Adapter) Dialect() *adapter.Dialect {
	return sqliteDialect
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
