// Package adapter provides the database adapter contract used to persist cleaned
// tables, plus a registry of the available targets.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and register
// themselves from init().
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/processdata/internal/frame"
)

// Config holds the connection settings for a target database.
type Config struct {
	// Type is the registered adapter name (e.g. "sqlite", "duckdb").
	Type string
	// Path is the database file.
	Path string
	// Settings are session settings applied right after connecting
	// (PRAGMA for sqlite, SET for duckdb).
	Settings map[string]string
}

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect opens the database described by cfg.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Query executes a SQL statement that returns rows. The caller closes the rows.
	// The engine uses it to count the rows of a table it just replaced.
	Query(ctx context.Context, sql string, args ...any) (*sql.Rows, error)

	// ReplaceTable drops the named table if it exists and recreates it holding t.
	ReplaceTable(ctx context.Context, name string, t *frame.Table) error

	// Dialect returns the type names and quoting rules of the target.
	// Identifiers in hand-built queries must be quoted with it.
	Dialect() *Dialect
}
