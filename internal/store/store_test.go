package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	for _, table := range []string{"objects", "imports"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name     string
		expected string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
	}
	for _, tt := range tests {
		if err := s.verifyPragma(tt.name, tt.expected); err != nil {
			t.Error(err)
		}
	}
}

func TestOpen_MigratesToCurrentVersion(t *testing.T) {
	s := createTestStore(t)

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("get user_version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, expected %d", version, currentSchemaVersion)
	}

	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_objects_type'",
	).Scan(&name)
	if err != nil {
		t.Errorf("type index missing: %v", err)
	}
}

func TestOpen_RegistersCasefold(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		expr     string
		expected any
	}{
		{"casefold('The Bard')", "the bard"},
		{"casefold('Stra\u00dfe')", "strasse"},
		{"casefold('CAF\u00c9')", "caf\u00e9"},
		{"casefold(42)", int64(42)},
		{"casefold(NULL)", nil},
		{"casefold('Stra\u00dfe') = casefold('STRASSE')", int64(1)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			var got any
			if err := s.db.QueryRow("SELECT " + tt.expr).Scan(&got); err != nil {
				t.Fatalf("SELECT %s: %v", tt.expr, err)
			}
			if b, ok := got.([]byte); ok {
				got = string(b)
			}
			if got != tt.expected {
				t.Errorf("%s = %#v, expected %#v", tt.expr, got, tt.expected)
			}
		})
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on empty store = %v", err)
	}
}
