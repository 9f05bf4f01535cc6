package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/engramhq/engram/internal/store"
)

func TestNewTestStore(t *testing.T) {
	st := NewTestStore(t)

	m := &store.Memory{Content: "hello", Kind: "factual"}
	if err := st.Insert(m); err != nil {
		t.Fatalf("insert into test store failed: %v", err)
	}
	if m.ID == "" {
		t.Error("expected an assigned id")
	}
}

func TestNewTestEngine(t *testing.T) {
	eng := NewTestEngine(t)

	stats, err := eng.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats on a fresh test engine failed: %v", err)
	}
	if stats.Store.MemoryCount != 0 {
		t.Errorf("expected an empty store, got %d memories", stats.Store.MemoryCount)
	}
}

func TestTempDir(t *testing.T) {
	dir := TempDir(t)

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Temp directory doesn't exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Path is not a directory")
	}
}

func TestTempFile(t *testing.T) {
	content := []byte("test content")
	path := TempFile(t, "test.txt", content)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read temp file: %v", err)
	}

	if string(data) != string(content) {
		t.Errorf("Expected content %q, got %q", string(content), string(data))
	}
}

func TestAssertNoError(t *testing.T) {
	AssertNoError(t, nil)
}

func TestAssertEqual(t *testing.T) {
	AssertEqual(t, 1, 1)
	AssertEqual(t, "test", "test")
	AssertEqual(t, true, true)
}

func TestAssertStringContains(t *testing.T) {
	AssertStringContains(t, "hello world", "world")
	AssertStringContains(t, "hello world", "hello")
	AssertStringContains(t, "hello world", "o w")
}
