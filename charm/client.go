// ABOUTME: Key/value client backing the local dataset tier
// ABOUTME: Wraps Charm KV (cloud-synced) or a plain local BadgerDB behind one API

package charm

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// store is the subset of charm/kv.KV the client relies on.
type store interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Reset() error
}

// Client is a thread-safe key/value store.
type Client struct {
	store  store
	config *Config
	closer func() error
	synced bool
	mu     sync.RWMutex
}

// Open opens the Charm KV database for this app and syncs on startup when
// auto-sync is enabled.
func Open(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Set charm host before opening KV
	_ = os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(AppName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	if cfg.AutoSync {
		_ = db.Sync()
	}

	return &Client{store: db, config: cfg, synced: true}, nil
}

// OpenLocal opens a BadgerDB in dir with no server involvement.
func OpenLocal(dir string) (*Client, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create kv dir: %w", err)
	}

	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return &Client{
		store:  &localKV{db: db},
		config: &Config{Host: "localhost", AutoSync: false},
		closer: db.Close,
	}, nil
}

// Close releases the underlying database.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closer == nil {
		// charm/kv doesn't expose Close(); BadgerDB is released on process exit
		return nil
	}
	err := c.closer()
	c.closer = nil
	return err
}

// Config returns the client's config.
func (c *Client) Config() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// Synced reports whether the client talks to a Charm server.
func (c *Client) Synced() bool {
	return c.synced
}

// ID returns the charm user ID for this device.
func (c *Client) ID() (string, error) {
	if !c.synced {
		return "", errors.New("local kv has no charm account")
	}
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// Sync performs a manual sync with the charm server.
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Sync()
}

// Get retrieves a value by key.
func (c *Client) Get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, err := c.store.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return val, err
}

// Set stores a value and syncs if enabled.
func (c *Client) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Set(key, value); err != nil {
		return err
	}

	// Sync while still holding lock to avoid race condition
	if c.config.AutoSync {
		_ = c.store.Sync()
	}
	return nil
}

// Delete removes a key and syncs if enabled. Deleting a missing key is not
// an error.
func (c *Client) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}

	if c.config.AutoSync {
		_ = c.store.Sync()
	}
	return nil
}

// KeysWithPrefix returns all keys starting with the given prefix.
func (c *Client) KeysWithPrefix(prefix []byte) ([][]byte, error) {
	c.mu.RLock()
	allKeys, err := c.store.Keys()
	c.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	var matched [][]byte
	for _, k := range allKeys {
		if bytes.HasPrefix(k, prefix) {
			matched = append(matched, k)
		}
	}
	return matched, nil
}

// Reset wipes all data from the KV store.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Reset()
}
