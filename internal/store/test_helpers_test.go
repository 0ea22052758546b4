package store

import (
	"path/filepath"
	"testing"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/world"
)

// createTestStore creates a new temporary store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestObject creates a Mobile with a name and hits.
func createTestObject(serial int64, name string, hits int64) *world.Object {
	return &world.Object{
		Serial: serial,
		Type:   "Mobile",
		Props: ir.IRObject{
			"name": ir.IRString(name),
			"hits": ir.IRInt(hits),
		},
	}
}
