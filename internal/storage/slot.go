// ABOUTME: Slot interface for durable key-value storage of the workout list.
// ABOUTME: Backends overwrite on Set, read whole values on Get, and clear on Delete.
package storage

import "errors"

// ErrNotFound is returned by Slot.Get when the key holds no value.
var ErrNotFound = errors.New("not found")

// Slot is a durable key-value store holding whole serialized values.
// This interface allows swapping backends (sqlite, badger, charm, memory).
type Slot interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set overwrites the value stored under key.
	Set(key string, data []byte) error
	// Delete clears key. Deleting a missing key is not an error.
	Delete(key string) error

	// Lifecycle
	Close() error
}
