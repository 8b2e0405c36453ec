// ABOUTME: Badger-backed stand-in for the charm client used by package tests
// ABOUTME: Each test gets its own temp directory and no network sync

package charm

import (
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v3"
)

// testClient stores keys in a local badger database, the same engine charm
// KV uses underneath, without a server connection.
type testClient struct {
	db     *badger.DB
	config *Config
	mu     sync.RWMutex
}

func (c *testClient) Get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, err
}

func (c *testClient) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (c *testClient) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (c *testClient) Keys() ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var keys [][]byte
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

func (c *testClient) Config() *Config {
	return c.config
}

func (c *testClient) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.DropAll()
}

// NewTestClient returns a Client backed by badger in t.TempDir(). Sync is a
// no-op and auto-sync is off. The cleanup closes the database.
func NewTestClient(t *testing.T) (*Client, func()) {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}

	cfg := &Config{Host: "localhost"}
	c := &Client{
		config:     cfg,
		testClient: &testClient{db: db, config: cfg},
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			if err := db.Close(); err != nil {
				t.Logf("failed to close test database: %v", err)
			}
		})
	}
	t.Cleanup(cleanup)
	return c, cleanup
}
