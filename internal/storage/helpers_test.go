// ABOUTME: Shared test helpers for storage tests.
// ABOUTME: Provides isolated SQLite and in-memory Badger stores and a backend loop.
package storage

import (
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestKV(t *testing.T) *KV {
	t.Helper()
	kv, err := OpenKV("")
	if err != nil {
		t.Fatalf("failed to open test kv: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

// forEachBackend runs fn against a fresh store of every engine.
func forEachBackend(t *testing.T, fn func(t *testing.T, repo Repository)) {
	t.Helper()
	t.Run("sqlite", func(t *testing.T) { fn(t, setupTestDB(t)) })
	t.Run("badger", func(t *testing.T) { fn(t, setupTestKV(t)) })
}

func ptr[T any](v T) *T { return &v }
