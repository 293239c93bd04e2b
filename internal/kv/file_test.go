package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ctx := context.Background()

	if _, err := store.Get(ctx, "refrigerators"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, "refrigerators", []byte(`[]`)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := store.Set(ctx, "refrigerators", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := store.Get(ctx, "refrigerators")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(got) != `[{"id":1}]` {
		t.Fatalf("expected overwritten value, got %q", got)
	}

	if _, err := os.Stat(filepath.Join(dir, "refrigerators.json")); err != nil {
		t.Fatalf("expected document file, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if name := entry.Name(); name != "refrigerators.json" && name != lockFileName {
			t.Fatalf("expected temp files cleaned up, found %s", name)
		}
	}

	if err := store.Delete(ctx, "refrigerators"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := store.Delete(ctx, "refrigerators"); err != nil {
		t.Fatalf("expected delete of missing key to succeed, got %v", err)
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := store.Set(context.Background(), "../escape", []byte("x")); err == nil {
		t.Fatalf("expected invalid key error")
	}
}

func TestFileStoreLocksDir(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := NewFileStore(dir); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked while the dir is open, got %v", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("expected reopen after close, got %v", err)
	}
	if err := second.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
