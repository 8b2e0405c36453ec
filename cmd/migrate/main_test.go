// ABOUTME: Tests for copying keys between storage backends
// ABOUTME: Uses the badger test client as source and a temp sqlite file as destination
package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/bizdash/charm"
	"github.com/harperreed/bizdash/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_CharmToSQLite(t *testing.T) {
	src, cleanup := charm.NewTestClient(t)
	defer cleanup()
	require.NoError(t, src.Set([]byte("goals"), []byte(`[{"id":1}]`)))
	require.NoError(t, src.Set([]byte("financial_month_2024-03-01"), []byte(`{}`)))

	dst, err := db.OpenKVStore(filepath.Join(t.TempDir(), "bizdash.db"))
	require.NoError(t, err)
	defer func() { _ = dst.Close() }()
	require.NoError(t, dst.Set([]byte("goals"), []byte(`[]`)))

	res, err := migrate(src, dst, true, false)
	require.NoError(t, err)
	assert.Equal(t, result{Copied: 1, Skipped: 1}, res)
	_, err = dst.Get([]byte("financial_month_2024-03-01"))
	assert.Error(t, err, "dry run writes nothing")

	res, err = migrate(src, dst, false, false)
	require.NoError(t, err)
	assert.Equal(t, result{Copied: 1, Skipped: 1}, res)

	goals, err := dst.Get([]byte("goals"))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(goals))

	res, err = migrate(src, dst, false, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Copied)

	goals, err = dst.Get([]byte("goals"))
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(goals))
}

func TestBackupFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bizdash.db")
	at := time.Date(2024, time.April, 15, 9, 30, 0, 0, time.UTC)

	require.NoError(t, backupFile(path, at), "missing file needs no backup")

	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
	require.NoError(t, backupFile(path, at))

	data, err := os.ReadFile(path + ".backup.20240415-093000")
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestOpenBackend_Unknown(t *testing.T) {
	_, err := openBackend("redis", "")
	assert.EqualError(t, err, `unknown backend "redis" (use charm or sqlite)`)
}
