// ABOUTME: Badger-backed durable slot for an embedded, local-only key-value store.
// ABOUTME: Each slot key maps to one badger key holding the whole serialized value.
package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
)

// BadgerSlot stores slots in a badger database directory.
type BadgerSlot struct {
	db *badger.DB
}

var _ Slot = (*BadgerSlot)(nil)

// OpenBadger opens or creates a badger database in dir.
func OpenBadger(dir string) (*BadgerSlot, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create badger directory: %w", err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerSlot{db: db}, nil
}

// Get reads the value stored under key.
func (b *BadgerSlot) Get(key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get slot %s: %w", key, err)
	}
	return value, nil
}

// Set overwrites the value stored under key.
func (b *BadgerSlot) Set(key string, data []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("set slot %s: %w", key, err)
	}
	return nil
}

// Delete clears key.
func (b *BadgerSlot) Delete(key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

// Close closes the badger database.
func (b *BadgerSlot) Close() error {
	return b.db.Close()
}
