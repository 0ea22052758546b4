// Package testutil provides shared fixtures for tests: the repository's
// example type catalog and world snapshots.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/world"
)

// RepoRoot walks up from the working directory to the directory holding
// go.mod. Tests run with the package directory as working directory.
func RepoRoot(tb testing.TB) string {
	tb.Helper()
	dir, err := os.Getwd()
	if err != nil {
		tb.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			tb.Fatalf("go.mod not found above working directory")
		}
		dir = parent
	}
}

// TypesDir is the example CUE type directory.
func TypesDir(tb testing.TB) string {
	tb.Helper()
	return filepath.Join(RepoRoot(tb), "testdata", "types")
}

// WorldPath is the path of a named example world, e.g. "britain".
func WorldPath(tb testing.TB, name string) string {
	tb.Helper()
	return filepath.Join(RepoRoot(tb), "testdata", "worlds", name+".yaml")
}

// LoadCatalog compiles the example types.
func LoadCatalog(tb testing.TB) *schema.Catalog {
	tb.Helper()
	c, err := schema.LoadDir(TypesDir(tb))
	if err != nil {
		tb.Fatalf("load types: %v", err)
	}
	return c
}

// LoadWorld loads a named example world against catalog.
func LoadWorld(tb testing.TB, catalog *schema.Catalog, name string) *world.Snapshot {
	tb.Helper()
	snap, err := world.LoadFile(WorldPath(tb, name), catalog)
	if err != nil {
		tb.Fatalf("load world %s: %v", name, err)
	}
	return snap
}
