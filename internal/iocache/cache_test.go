package iocache

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/tomato/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobals makes InitStores and CloseStores usable again within one test binary.
func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite setup", func(t *testing.T) {
		resetGlobals(t)
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		historyPath := filepath.Join(dir, "history.db")

		err := InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, historyPath)
		require.NoError(t, err, "Failed to initialize stores")

		assert.NotNil(t, Manager.GetMetadataStore(), "Metadata store should not be nil")
		assert.NotNil(t, Manager.GetHistoryStore(), "History store should not be nil")

		CloseStores()

		_, err = os.Stat(cachePath)
		assert.NoError(t, err, "Cache database file should be created")
		_, err = os.Stat(historyPath)
		assert.NoError(t, err, "History database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals(t)
		cachePath := filepath.Join(t.TempDir(), "cache.db")

		// Multiple initializations should be safe (sync.Once)
		err1 := InitStores(schema.SQLiteBackend, cachePath, "", "")
		err2 := InitStores(schema.SQLiteBackend, cachePath, "", "")
		assert.NoError(t, err1, "First init should not fail")
		assert.NoError(t, err2, "Second init should not fail")

		// Multiple closes should be safe (sync.Once)
		CloseStores()
		CloseStores()
	})

	t.Run("history disabled", func(t *testing.T) {
		resetGlobals(t)
		err := InitStores(schema.NoneBackend, "", "", "")
		require.NoError(t, err)

		assert.NotNil(t, Manager.GetMetadataStore(), "None backend still gives a no-op store")
		assert.Nil(t, Manager.GetHistoryStore(), "Empty history backend leaves the store nil")
		CloseStores()
	})

	t.Run("unsupported backend", func(t *testing.T) {
		resetGlobals(t)
		err := InitStores("redis", "", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize metadata caching")
	})
}

func TestCacheStore(t *testing.T) {
	t.Run("none backend operations", func(t *testing.T) {
		store, err := NewCacheStore("test_table", schema.NoneBackend, "")
		require.NoError(t, err)

		_, _, _, err = store.Get("key")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, store.Set("key", []byte("value"), 1, 0))

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "none", status.Backend)
		assert.False(t, status.Connected)
		assert.NoError(t, store.Close())
	})

	t.Run("invalid table name", func(t *testing.T) {
		_, err := NewCacheStore("bad;name", schema.SQLiteBackend, ":memory:")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid table name")
	})

	t.Run("set get and overwrite", func(t *testing.T) {
		store, err := NewCacheStore(metadataTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		_, _, _, err = store.Get("missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)

		now := time.Now().Unix()
		require.NoError(t, store.Set("k", []byte("---\na: 1\n---\n"), 1, now))
		value, version, ts, err := store.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "---\na: 1\n---\n", string(value))
		assert.Equal(t, 1, version)
		assert.Equal(t, now, ts)

		require.NoError(t, store.Set("k", nil, 2, now+1))
		value, version, _, err = store.Get("k")
		require.NoError(t, err)
		assert.Empty(t, value)
		assert.Equal(t, 2, version)
	})

	t.Run("status", func(t *testing.T) {
		store, err := NewCacheStore(metadataTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Equal(t, 0, status.TotalEntries)

		require.NoError(t, store.Set("a", []byte("x"), 1, 100))
		require.NoError(t, store.Set("b", []byte("y"), 1, 200))
		status, err = store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, int64(200), status.LastEntryTime.Unix())
		assert.Equal(t, int64(100), status.OldestEntryTime.Unix())
		assert.Greater(t, status.TableSizeBytes, int64(0))
	})
}

func TestClearCache(t *testing.T) {
	t.Run("sqlite removes the file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore(metadataTable, schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))

		// Clearing again is fine
		assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	})

	t.Run("sqlite needs a path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		err := ClearCache("redis", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported backend")
	})
}

func TestStoreUtils(t *testing.T) {
	t.Run("validate table name", func(t *testing.T) {
		tests := []struct {
			name    string
			wantErr bool
		}{
			{"tomato_metadata_cache", false},
			{"_private", false},
			{"", true},
			{"1table", true},
			{"drop table; --", true},
		}
		for _, tt := range tests {
			err := validateTableName(tt.name)
			if tt.wantErr {
				assert.Error(t, err, tt.name)
			} else {
				assert.NoError(t, err, tt.name)
			}
		}
	})

	t.Run("quote table name", func(t *testing.T) {
		assert.Equal(t, "`runs`", quoteTableName("runs", schema.MySQLBackend))
		assert.Equal(t, `"runs"`, quoteTableName("runs", schema.PostgreSQLBackend))
		assert.Equal(t, `"runs"`, quoteTableName("runs", schema.SQLiteBackend))
	})

	t.Run("placeholders", func(t *testing.T) {
		assert.Equal(t, "?, ?, ?", placeholders(schema.SQLiteBackend, 3))
		assert.Equal(t, "?, ?", placeholders(schema.MySQLBackend, 2))
		assert.Equal(t, "$1, $2, $3", placeholders(schema.PostgreSQLBackend, 3))
	})

	t.Run("driver names", func(t *testing.T) {
		for backend, want := range map[schema.DatabaseBackend]string{
			schema.SQLiteBackend:     "sqlite",
			schema.MySQLBackend:      "mysql",
			schema.PostgreSQLBackend: "pgx",
		} {
			got, err := driverNameFor(backend)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		_, err := driverNameFor(schema.NoneBackend)
		assert.Error(t, err)
	})
}

func TestWriteCacheStatus(t *testing.T) {
	var buf bytes.Buffer
	WriteCacheStatus(&buf, schema.CacheStatus{
		Backend:         "sqlite",
		Connected:       true,
		TotalEntries:    3,
		LastEntryTime:   time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		OldestEntryTime: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
		TableSizeBytes:  4096,
	})
	out := buf.String()
	assert.Contains(t, out, "Cache Backend: sqlite")
	assert.Contains(t, out, "Total Entries: 3")
	assert.Contains(t, out, "Last Entry: 2024-03-10 12:00:00")
	assert.Contains(t, out, "Table Size: 4096 bytes")

	buf.Reset()
	WriteCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())
}
