package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fridge-app-go/internal/config"
	"fridge-app-go/internal/kv"
	"fridge-app-go/pkg/logger"
)

func testConfig(backend, dir string) config.Config {
	return config.Config{
		HTTPPort: "0",
		Env:      "development",
		Store:    config.StoreConfig{Backend: backend, Dir: dir},
		Identity: config.IdentityConfig{DefaultName: "Me", AutoProvision: true},
		Cache:    config.CacheConfig{Enabled: true, TTL: time.Minute},
	}
}

func TestOpenBackendRejectsUnknown(t *testing.T) {
	if _, err := OpenBackend(testConfig("sqlite", ""), logger.NewNop()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestFileBackendPersistsAcrossServices(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(config.BackendFile, t.TempDir())
	log := logger.NewNop()

	backend, err := OpenBackend(cfg, log)
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	svc := NewFridgeService(backend, cfg, nil, log)
	created, err := svc.CreateFridge(ctx, "Kitchen", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenBackend(cfg, log)
	if err != nil {
		t.Fatalf("reopen backend: %v", err)
	}
	defer reopened.Close()
	svc = NewFridgeService(reopened, cfg, nil, log)

	found, err := svc.GetFridgeByInviteCode(ctx, created.InviteCode)
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if found == nil || found.ID != created.ID || found.MemberCount != 1 {
		t.Fatalf("expected persisted fridge %d, got %+v", created.ID, found)
	}

	user, err := svc.GetCurrentUser(ctx)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.ID != created.OwnerID {
		t.Fatalf("expected current user %d to survive restart, got %d", created.OwnerID, user.ID)
	}
}

func TestNewWithConfigServesHealth(t *testing.T) {
	application, err := NewWithConfig(context.Background(), testConfig(config.BackendMemory, ""), logger.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer application.Close()

	rec := httptest.NewRecorder()
	application.HTTPServer().Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	application.HTTPServer().Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", rec.Code)
	}
}

func TestFileBackendHeldUntilAppCloses(t *testing.T) {
	cfg := testConfig(config.BackendFile, t.TempDir())
	cfg.ShutdownTimeout = 3 * time.Second

	application, err := NewWithConfig(context.Background(), cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if got := application.Config().ShutdownTimeout; got != 3*time.Second {
		t.Fatalf("expected shutdown timeout 3s, got %v", got)
	}

	if _, err := OpenBackend(cfg, logger.NewNop()); !errors.Is(err, kv.ErrLocked) {
		t.Fatalf("expected ErrLocked while the app is open, got %v", err)
	}

	if err := application.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	backend, err := OpenBackend(cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("expected store free after close, got %v", err)
	}
	_ = backend.Close()
}
