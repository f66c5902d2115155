package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/processdata/internal/frame"
	"github.com/leapstack-labs/processdata/pkg/adapter"
)

func TestAdapter_Connect(t *testing.T) {
	tests := []struct {
		name      string
		setupPath func(t *testing.T) string
		verify    func(t *testing.T, path string)
	}{
		{
			name: "in-memory",
			setupPath: func(_ *testing.T) string {
				return ":memory:"
			},
		},
		{
			name: "file-based",
			setupPath: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "test.duckdb")
			},
			verify: func(t *testing.T, path string) {
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "database file was not created")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)

			dbPath := tt.setupPath(t)
			require.NoError(t, adp.Connect(ctx, adapter.Config{Path: dbPath, Settings: map[string]string{"memory_limit": "512MB"}}))
			defer func() { _ = adp.Close() }()

			if tt.verify != nil {
				tt.verify(t, dbPath)
			}
		})
	}
}

func TestAdapter_NotConnected(t *testing.T) {
	tests := []struct {
		name      string
		operation func(ctx context.Context, adp *Adapter) error
	}{
		{
			name: "exec without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				return adp.Exec(ctx, "SELECT 1")
			},
		},
		{
			name: "query without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Query(ctx, "SELECT 1")
				return err
			},
		},
		{
			name: "replace without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				return adp.ReplaceTable(ctx, "t", frame.New(frame.Column{Name: "id"}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.operation(context.Background(), New(nil))
			assert.ErrorContains(t, err, "database connection not established")
		})
	}
}

func TestAdapter_ReplaceTable(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{Path: ":memory:"}))
	defer func() { _ = adp.Close() }()

	tbl := frame.New(
		frame.Column{Name: "id", Kind: frame.KindInt},
		frame.Column{Name: "message", Kind: frame.KindText},
		frame.Column{Name: "related", Kind: frame.KindInt},
	)
	require.NoError(t, tbl.Append(int64(1), "flood", int64(1)))
	require.NoError(t, tbl.Append(int64(2), "help", int64(1)))

	for range 2 {
		require.NoError(t, adp.ReplaceTable(ctx, "disaster_cat", tbl))
	}

	rows, err := adp.Query(ctx, `SELECT COUNT(*), CAST(SUM(related) AS BIGINT) FROM disaster_cat`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	require.True(t, rows.Next())
	var count, sum int64
	require.NoError(t, rows.Scan(&count, &sum))
	assert.Equal(t, int64(2), count)
	assert.Equal(t, int64(2), sum)
	require.NoError(t, rows.Err())
}
