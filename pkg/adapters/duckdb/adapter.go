// Package duckdb provides a DuckDB database adapter for processdata.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/processdata/internal/frame"
	"github.com/leapstack-labs/processdata/pkg/adapter"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Name is the registered adapter name.
const Name = "duckdb"

var duckdbDialect = &adapter.Dialect{
	Name:      Name,
	IntType:   "BIGINT",
	FloatType: "DOUBLE",
	TextType:  "VARCHAR",
}

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" (or an empty path) for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	a.DB = db
	a.Cfg = cfg

	keys := make([]string, 0, len(cfg.Settings))
	for k := range cfg.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value := strings.ReplaceAll(cfg.Settings[k], "'", "''")
		if err := a.Exec(ctx, fmt.Sprintf("SET %s = '%s'", k, value)); err != nil {
			_ = a.Close()
			return fmt.Errorf("failed to apply setting %s: %w", k, err)
		}
	}

	a.Logger.Debug("connected", "adapter", Name, "path", cfg.Path)
	return nil
}

// ReplaceTable drops and recreates the named table holding t.
func (a *Adapter) ReplaceTable(ctx context.Context, name string, t *frame.Table) error {
	return a.ReplaceTableCommon(ctx, duckdbDialect, name, t)
}

// Dialect returns the DuckDB dialect.
func (a *Adapter) Dialect() *adapter.Dialect {
	return duckdbDialect
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
