package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"BIZDASH_BACKEND", "BIZDASH_DB_PATH", "BIZDASH_LOG_LEVEL",
		"BIZDASH_LOG_FORMAT", "BIZDASH_WEB_PORT", "BIZDASH_SYNC_SCHEDULE"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	// Keep a stray .env in the package directory out of the picture.
	t.Chdir(t.TempDir())
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendCharm, cfg.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Web.Port)
	assert.Empty(t, cfg.Web.SyncSchedule)
	assert.Equal(t, "bizdash.db", filepath.Base(cfg.DBPath))
}

func TestLoad_FileThenEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: sqlite
db_path: /tmp/dash.db
log:
  level: debug
web:
  port: 9000
  sync_schedule: "@every 15m"
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "/tmp/dash.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 9000, cfg.Web.Port)
	assert.Equal(t, "@every 15m", cfg.Web.SyncSchedule)

	t.Setenv("BIZDASH_WEB_PORT", "9100")
	t.Setenv("BIZDASH_LOG_FORMAT", "json")
	t.Setenv("BIZDASH_SYNC_SCHEDULE", "")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Web.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Web.SyncSchedule)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("BIZDASH_BACKEND=sqlite\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("BIZDASH_BACKEND") })

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("backend: [oops"), 0600))
	_, err := Load(bad)
	assert.Error(t, err)

	t.Setenv("BIZDASH_BACKEND", "postgres")
	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "unknown backend")

	t.Setenv("BIZDASH_BACKEND", "")
	t.Setenv("BIZDASH_WEB_PORT", "eighty")
	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "BIZDASH_WEB_PORT")
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Backend = BackendSQLite
	cfg.Web.SyncSchedule = "@hourly"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
