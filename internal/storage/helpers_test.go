// ABOUTME: Shared test helpers for storage tests.
// ABOUTME: Provides isolated SQLite and badger slots in temp directories.
package storage

import (
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "mapty.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupTestBadger(t *testing.T) *BadgerSlot {
	t.Helper()
	b, err := OpenBadger(filepath.Join(t.TempDir(), "badger"))
	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}
