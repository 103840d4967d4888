package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/navigator"
	"github.com/fwojciec/navigator/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates session tables", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		for _, table := range []string{"sessions", "url_records", "documents"} {
			var count int
			require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count), table)
		}
		var version int
		require.NoError(t, db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
		assert.Equal(t, 1, version)
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "navigator.db")
		first := sqlite.NewDB(path)
		require.NoError(t, first.Open())
		session := navigator.NewSession("docs")
		require.NoError(t, sqlite.NewSessionService(first).CreateSession(context.Background(), session))
		require.NoError(t, first.Close())

		second := sqlite.NewDB(path)
		require.NoError(t, second.Open())
		defer second.Close()

		found, err := sqlite.NewSessionService(second).FindSessionByID(context.Background(), session.ID)
		require.NoError(t, err)
		assert.Equal(t, "docs", found.Name)
	})

	t.Run("uses WAL for file databases", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(filepath.Join(t.TempDir(), "navigator.db"))
		require.NoError(t, db.Open())
		defer db.Close()

		var mode string
		require.NoError(t, db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", mode)
	})

	t.Run("refuses newer schema", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "navigator.db")
		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		_, err := db.ExecContext(context.Background(), "PRAGMA user_version = 99")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		err = sqlite.NewDB(path).Open()

		assert.Equal(t, navigator.EINVALID, navigator.ErrorCode(err))
	})

	t.Run("fails for missing directory", func(t *testing.T) {
		t.Parallel()

		err := sqlite.NewDB("/nonexistent/path/navigator.db").Open()

		require.Error(t, err)
	})
}
