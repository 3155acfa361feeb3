package migrations

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).
		Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestFS(t *testing.T) {
	for _, dialect := range []string{DialectPostgres, DialectSQLite} {
		t.Run(dialect, func(t *testing.T) {
			fsys, err := FS(dialect)
			require.NoError(t, err)
			files, err := fs.Glob(fsys, "*.sql")
			require.NoError(t, err)
			assert.Contains(t, files, "00001_create_tasks.sql")
		})
	}

	_, err := FS("oracle")
	assert.Error(t, err)
}

func TestRunUpAndDown(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, Run(ctx, db, DialectSQLite, CommandUp, nil))
	assert.True(t, tableExists(t, db, "tasks"))
	assert.True(t, tableExists(t, db, TableName))

	// idempotent
	require.NoError(t, Run(ctx, db, DialectSQLite, CommandUp, nil))
	require.NoError(t, Run(ctx, db, DialectSQLite, CommandVersion, nil))

	require.NoError(t, Run(ctx, db, DialectSQLite, CommandDown, nil))
	assert.False(t, tableExists(t, db, "tasks"))
}

func TestRunUnknownCommand(t *testing.T) {
	db := openSQLite(t)

	err := Run(context.Background(), db, DialectSQLite, "sideways", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}
