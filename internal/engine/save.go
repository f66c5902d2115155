package engine

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/processdata/internal/frame"
	"github.com/leapstack-labs/processdata/pkg/adapter"
)

// Save writes t to the destination table, replacing any previous table of that name.
// The connection is closed before Save returns, whether or not the write succeeded.
func (e *Engine) Save(ctx context.Context, t *frame.Table) (err error) {
	cfg := adapter.Config{
		Type:     e.cfg.Target,
		Path:     e.cfg.DatabasePath,
		Settings: e.cfg.Settings,
	}

	db, err := adapter.NewAdapter(cfg, e.logger)
	if err != nil {
		return err
	}
	if err := db.Connect(ctx, cfg); err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", cfg.Type, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close database: %w", cerr)
		}
	}()

	if err := db.ReplaceTable(ctx, e.cfg.Table, t); err != nil {
		return fmt.Errorf("failed to save data: %w", err)
	}

	n, err := countRows(ctx, db, e.cfg.Table)
	if err != nil {
		return fmt.Errorf("failed to verify saved data: %w", err)
	}
	if n != t.Len() {
		return fmt.Errorf("table %s holds %d rows after save, expected %d", e.cfg.Table, n, t.Len())
	}
	e.logger.Info("saved table", "table", e.cfg.Table, "rows", t.Len(), "target", cfg.Type)
	return nil
}

// countRows returns the number of rows in the named table.
func countRows(ctx context.Context, db adapter.Adapter, table string) (n int, err error) {
	rows, err := db.Query(ctx, "SELECT COUNT(*) FROM "+db.Dialect().QuoteIdent(table))
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("count of %s returned no rows", table)
	}
	if err := rows.Scan(&n); err != nil {
		return 0, err
	}
	return n, rows.Err()
}
