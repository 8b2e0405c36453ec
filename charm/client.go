// ABOUTME: Charm KV backend for the dashboard's named collections
// ABOUTME: Process-wide client opened once; writes sync to Charm Cloud when enabled

package charm

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/charmbracelet/log"
)

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// Client wraps charm KV with config and sync helpers. It satisfies store.KV.
type Client struct {
	kv         *kv.KV
	config     *Config
	mu         sync.RWMutex
	testClient *testClient
}

// GetClient returns the process-wide client, opening it on first use.
func GetClient() (*Client, error) {
	clientOnce.Do(func() {
		cfg, err := LoadConfig()
		if err != nil {
			clientErr = fmt.Errorf("failed to load config: %w", err)
			return
		}
		globalClient, clientErr = open(cfg)
	})
	if clientErr != nil {
		return nil, clientErr
	}
	if globalClient == nil {
		return nil, fmt.Errorf("client not initialized")
	}
	return globalClient, nil
}

// NewClient opens a client outside the shared singleton.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return open(cfg)
}

func open(cfg *Config) (*Client, error) {
	_ = os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(AppName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := &Client{kv: db, config: cfg}
	if cfg.AutoSync {
		if err := db.Sync(); err != nil {
			log.Warn("initial charm sync failed", "host", cfg.Host, "err", err)
		}
	}
	return c, nil
}

// Config returns the client's config.
func (c *Client) Config() *Config {
	if c.testClient != nil {
		return c.testClient.Config()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// ID returns the charm user ID for this device.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// IsConnected reports whether a charm identity is available.
func (c *Client) IsConnected() bool {
	if c.testClient != nil {
		return true
	}
	_, err := c.ID()
	return err == nil
}

// Sync pulls and pushes changes with the charm server.
func (c *Client) Sync() error {
	if c.testClient != nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Sync()
}

func (c *Client) Get(key []byte) ([]byte, error) {
	if c.testClient != nil {
		return c.testClient.Get(key)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Get(key)
}

// Set stores a value, syncing afterwards when auto-sync is on.
func (c *Client) Set(key, value []byte) error {
	if c.testClient != nil {
		return c.testClient.Set(key, value)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Set(key, value); err != nil {
		return err
	}
	c.syncLocked(key)
	return nil
}

// Delete removes a key, syncing afterwards when auto-sync is on.
func (c *Client) Delete(key []byte) error {
	if c.testClient != nil {
		return c.testClient.Delete(key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Delete(key); err != nil {
		return err
	}
	c.syncLocked(key)
	return nil
}

// syncLocked runs while the write lock is held so a concurrent write cannot
// slip in between the local write and the push.
func (c *Client) syncLocked(key []byte) {
	if !c.config.AutoSync {
		return
	}
	if err := c.kv.Sync(); err != nil {
		log.Warn("charm sync after write failed", "key", string(key), "err", err)
	}
}

func (c *Client) Keys() ([][]byte, error) {
	if c.testClient != nil {
		return c.testClient.Keys()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Keys()
}

// KeysWithPrefix returns all keys starting with prefix.
func (c *Client) KeysWithPrefix(prefix string) ([]string, error) {
	all, err := c.Keys()
	if err != nil {
		return nil, err
	}
	var matched []string
	for _, k := range all {
		if strings.HasPrefix(string(k), prefix) {
			matched = append(matched, string(k))
		}
	}
	return matched, nil
}

// Reset wipes every key in the local store.
func (c *Client) Reset() error {
	if c.testClient != nil {
		return c.testClient.Reset()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}
