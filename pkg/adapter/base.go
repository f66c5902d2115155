package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/processdata/internal/frame"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Query and ReplaceTable implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		b.logger().Debug("closing database connection", "path", b.Cfg.Path)
		err := b.DB.Close()
		b.DB = nil
		return err
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string, args ...any) error {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	if _, err := b.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string, args ...any) (*sql.Rows, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// ReplaceTableCommon drops, recreates and fills the named table in one transaction.
// On any failure the transaction is rolled back and the previous table is kept.
func (b *BaseSQLAdapter) ReplaceTableCommon(ctx context.Context, d *Dialect, name string, t *frame.Table) (err error) {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	if t.Width() == 0 {
		return fmt.Errorf("table %s has no columns", name)
	}

	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				b.logger().Warn("rollback failed", "table", name, "error", rbErr)
			}
		}
	}()

	table := d.QuoteIdent(name)
	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}
	if _, err = tx.ExecContext(ctx, CreateTableSQL(d, name, t)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, InsertSQL(d, name, t))
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", name, err)
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range t.Rows {
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to insert row %d into %s: %w", i, name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table %s: %w", name, err)
	}

	b.logger().Debug("replaced table", "table", name, "rows", t.Len(), "columns", t.Width())
	return nil
}

// CreateTableSQL builds the CREATE TABLE statement for t.
func CreateTableSQL(d *Dialect, name string, t *frame.Table) string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = d.QuoteIdent(c.Name) + " " + d.ColumnType(c.Kind)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.QuoteIdent(name), strings.Join(defs, ", "))
}

// InsertSQL builds a parameterized single-row INSERT statement for t.
func InsertSQL(d *Dialect, name string, t *frame.Table) string {
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = d.QuoteIdent(c.Name)
		marks[i] = d.Placeholder(i + 1)
	}
	//nolint:gosec // identifiers are quoted, values are bound
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(name), strings.Join(cols, ", "), strings.Join(marks, ", "))
}
