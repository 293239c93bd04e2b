package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"
)

func newTestValkeyStore(t *testing.T) *ValkeyStore {
	t.Helper()
	addr := os.Getenv("TEST_VALKEY_ADDR")
	if addr == "" {
		t.Skip("TEST_VALKEY_ADDR not set; skipping valkey tests")
	}
	store, err := NewValkeyStore(ValkeyConfig{
		Addr:   addr,
		Prefix: fmt.Sprintf("kv-test:%d:", time.Now().UnixNano()),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestValkeyStoreRoundTrip(t *testing.T) {
	store := newTestValkeyStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "refrigerators"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Set(ctx, "refrigerators", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, "refrigerators")
	if err != nil || string(got) != `[]` {
		t.Fatalf("expected [], got %q (%v)", got, err)
	}
	if err := store.Delete(ctx, "refrigerators"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "refrigerators"); err != nil {
		t.Fatalf("expected delete of missing key to succeed, got %v", err)
	}
}
