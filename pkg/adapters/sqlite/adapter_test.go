package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/querypad/querypad/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Adapter {
	t.Helper()

	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.ConnectionConfig{Path: ":memory:"}))
	t.Cleanup(func() { _ = adp.Close() })
	return adp
}

func TestAdapter_Connect(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "in-memory",
			path: func(_ *testing.T) string { return ":memory:" },
		},
		{
			name: "file-based",
			path: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "test.db")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)

			require.NoError(t, adp.Connect(ctx, core.ConnectionConfig{Path: tt.path(t)}))
			defer func() { _ = adp.Close() }()

			assert.True(t, adp.IsConnected())
			assert.Equal(t, "sqlite", adp.Dialect())
		})
	}
}

func TestAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	_, err := adp.Query(ctx, "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not established")

	_, err = adp.ListTables(ctx)
	require.Error(t, err)

	_, err = adp.GetTableMetadata(ctx, "users")
	require.Error(t, err)
}

func TestAdapter_ListTables(t *testing.T) {
	ctx := context.Background()
	adp := setupTestDB(t)

	_, err := adp.Exec(ctx, "CREATE TABLE zebra (id INTEGER)")
	require.NoError(t, err)
	_, err = adp.Exec(ctx, "CREATE TABLE apple (id INTEGER)")
	require.NoError(t, err)

	tables, err := adp.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "zebra"}, tables, "tables should be sorted by name")
}

func TestAdapter_GetTableMetadata(t *testing.T) {
	ctx := context.Background()
	adp := setupTestDB(t)

	_, err := adp.Exec(ctx, `
		CREATE TABLE products (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			price REAL
		)
	`)
	require.NoError(t, err)
	_, err = adp.Exec(ctx, "INSERT INTO products (name, price) VALUES ('widget', 9.99), ('gadget', 19.99)")
	require.NoError(t, err)

	meta, err := adp.GetTableMetadata(ctx, "products")
	require.NoError(t, err)

	assert.Equal(t, "products", meta.Name)
	assert.Equal(t, "main", meta.Schema)
	assert.Equal(t, int64(2), meta.RowCount)
	require.Len(t, meta.Columns, 3)

	assert.Equal(t, "id", meta.Columns[0].Name)
	assert.True(t, meta.Columns[0].PrimaryKey)
	assert.Equal(t, 1, meta.Columns[0].Position)

	assert.Equal(t, "name", meta.Columns[1].Name)
	assert.False(t, meta.Columns[1].Nullable, "NOT NULL column should not be nullable")

	assert.Equal(t, "price", meta.Columns[2].Name)
	assert.True(t, meta.Columns[2].Nullable)
}

func TestAdapter_GetTableMetadata_NotFound(t *testing.T) {
	ctx := context.Background()
	adp := setupTestDB(t)

	_, err := adp.GetTableMetadata(ctx, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAdapter_ExecReportsAffected(t *testing.T) {
	ctx := context.Background()
	adp := setupTestDB(t)

	_, err := adp.Exec(ctx, "CREATE TABLE t (id INTEGER)")
	require.NoError(t, err)

	affected, err := adp.Exec(ctx, "INSERT INTO t VALUES (1), (2), (3)")
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
}
