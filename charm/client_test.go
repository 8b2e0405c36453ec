// ABOUTME: Tests for the badger-backed test client and sync status output
// ABOUTME: Exercises the same Client methods the repository uses
package charm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestClient_SetGetDelete(t *testing.T) {
	c, cleanup := NewTestClient(t)
	defer cleanup()

	require.NoError(t, c.Set([]byte("goals"), []byte(`[]`)))
	require.NoError(t, c.Set([]byte("financial_month_2024-01-01"), []byte(`{}`)))
	require.NoError(t, c.Set([]byte("financial_year_2024-01-01"), []byte(`{}`)))

	v, err := c.Get([]byte("goals"))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(v))

	fin, err := c.KeysWithPrefix("financial_")
	require.NoError(t, err)
	assert.Len(t, fin, 2)

	require.NoError(t, c.Delete([]byte("goals")))
	_, err = c.Get([]byte("goals"))
	assert.Error(t, err)

	assert.True(t, c.IsConnected())
	assert.NoError(t, c.Sync())
	assert.False(t, c.Config().AutoSync)
}

func TestTestClient_Reset(t *testing.T) {
	c, cleanup := NewTestClient(t)
	defer cleanup()

	require.NoError(t, c.Set([]byte("goals"), []byte(`[]`)))
	require.NoError(t, c.Reset())

	keys, err := c.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestPrintKeySummary(t *testing.T) {
	var buf bytes.Buffer
	printKeySummary(&buf, [][]byte{
		[]byte("salesPipeline"),
		[]byte("financial_month_2024-01-01"),
		[]byte("goals"),
		[]byte("financial_quarter_2024-01-01"),
	})

	out := buf.String()
	assert.Contains(t, out, "Collections: 2")
	assert.Contains(t, out, "Financial snapshots: 2")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("goals")), bytes.Index(buf.Bytes(), []byte("salesPipeline")))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultCharmHost, cfg.Host)
	assert.True(t, cfg.AutoSync)
	assert.NotZero(t, cfg.StaleThreshold)
}

func TestLoadConfig_HostFromEnv(t *testing.T) {
	t.Setenv("BIZDASH_CHARM_HOST", "charm.example.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "charm.example.test", cfg.Host)
	assert.NotZero(t, cfg.StaleThreshold)
}
