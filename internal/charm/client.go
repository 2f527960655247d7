// ABOUTME: Charm KV client wrapper used as a synced durable slot.
// ABOUTME: Provides thread-safe initialization and automatic cloud sync after writes.
package charm

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/mapty/internal/storage"
)

const (
	// DBName is the charm KV database holding mapty's slots.
	DBName    = "mapty"
	charmHost = "charm.2389.dev"

	// SlotPrefix namespaces slot keys inside the shared charm database.
	SlotPrefix = "slot:"
)

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// Client stores slots in Charm KV.
type Client struct {
	kv *kv.KV
	mu sync.RWMutex
}

// Compile-time check that Client implements storage.Slot.
var _ storage.Slot = (*Client)(nil)

// InitClient initializes the global Charm client.
// Thread-safe; can be called multiple times.
func InitClient() (*Client, error) {
	clientOnce.Do(func() {
		// Set server before opening KV
		if os.Getenv("CHARM_HOST") == "" {
			if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
				clientErr = err
				return
			}
		}

		db, err := kv.OpenWithDefaultsFallback(DBName)
		if err != nil {
			clientErr = err
			return
		}

		globalClient = &Client{kv: db}

		// Pull remote data on startup (skip in read-only mode)
		if !db.IsReadOnly() {
			_ = db.Sync()
		}
	})

	return globalClient, clientErr
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Get returns the value stored under key.
func (c *Client) Get(key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := c.kv.Get(slotKey(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return data, nil
}

// Set overwrites the value stored under key and syncs.
func (c *Client) Set(key string, data []byte) error {
	return c.write(key, func(k []byte) error {
		return c.kv.Set(k, data)
	})
}

// Delete clears key and syncs. Deleting an absent key is not an error.
func (c *Client) Delete(key string) error {
	return c.write(key, func(k []byte) error {
		if err := c.kv.Delete(k); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
}

// ErrReadOnly is returned by writes while another process holds the database.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// write runs op on the namespaced key, then pushes the change to the cloud.
func (c *Client) write(key string, op func(k []byte) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := op(slotKey(key)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	_ = c.kv.Sync()
	return nil
}

func slotKey(key string) []byte {
	return []byte(SlotPrefix + key)
}

// Host returns the charm server mapty syncs with.
func Host() string {
	if h := os.Getenv("CHARM_HOST"); h != "" {
		return h
	}
	return charmHost
}
