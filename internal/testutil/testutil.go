// Package testutil provides shared test helpers: throwaway stores and
// engines backed by tempfile SQLite databases, plus small assertion
// helpers used across the engine's test suites.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/engramhq/engram/internal/engine"
	"github.com/engramhq/engram/internal/store"
	"github.com/engramhq/engram/pkg/config"
)

// NewTestStore opens a schema-initialized Store backed by a tempfile
// database. The connection is closed when t completes.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	if err := st.InitSchema(); err != nil {
		st.Close()
		t.Fatalf("failed to init test schema: %v", err)
	}

	t.Cleanup(func() { st.Close() })
	return st
}

// NewTestConfig returns a config suitable for tests: embedding disabled
// (mode=none) and no external vector index, so tests never depend on a
// reachable Ollama or Qdrant instance.
func NewTestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Embedding.Mode = "none"
	cfg.Vector.Enabled = false
	cfg.RateLimit.Enabled = false
	return cfg
}

// NewTestEngine builds an Engine over a fresh throwaway store, using
// NewTestConfig. The underlying store is closed when t completes.
func NewTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	st := NewTestStore(t)
	return engine.New(NewTestConfig(), st)
}

// TempDir creates a temporary directory for testing. Automatically cleaned
// up after test completion.
func TempDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// TempFile creates a temporary file for testing. Automatically cleaned up
// after test completion.
func TempFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	return path
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
}

// AssertEqual fails the test if got != want.
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()

	if got != want {
		t.Errorf("Got %v, want %v", got, want)
	}
}

// AssertStringContains fails the test if str doesn't contain substr.
func AssertStringContains(t *testing.T, str, substr string) {
	t.Helper()

	if !strings.Contains(str, substr) {
		t.Errorf("String %q does not contain %q", str, substr)
	}
}
