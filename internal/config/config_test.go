package config

import (
	"testing"
	"time"

	"fridge-app-go/pkg/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(logger.NewNop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.Store.Backend != BackendFile || cfg.Store.Dir != "./data" {
		t.Fatalf("expected file backend in ./data, got %+v", cfg.Store)
	}
	if cfg.Identity.DefaultName != "Me" || !cfg.Identity.AutoProvision {
		t.Fatalf("unexpected identity defaults: %+v", cfg.Identity)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Fatalf("expected 1m cache ttl, got %v", cfg.Cache.TTL)
	}
	if cfg.DB.ConnMaxLifetime != 30*time.Minute {
		t.Fatalf("expected 30m conn lifetime, got %v", cfg.DB.ConnMaxLifetime)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected 10s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoadNestedOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("STORE_REDIS_ADDR", "cache:6380")
	t.Setenv("STORE_REDIS_DB", "3")
	t.Setenv("IDENTITY_AUTO_PROVISION", "false")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load(logger.NewNop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Store.Redis.Addr != "cache:6380" || cfg.Store.Redis.DB != 3 {
		t.Fatalf("unexpected redis config: %+v", cfg.Store.Redis)
	}
	if cfg.Identity.AutoProvision {
		t.Fatalf("expected auto provision disabled")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_BACKEND", "sqlite")

	if _, err := Load(logger.NewNop()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestGetDSNPrefersExplicitDSN(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://x", Host: "h"}
	if got := cfg.GetDSN(); got != "postgres://x" {
		t.Fatalf("expected explicit dsn, got %q", got)
	}

	cfg = DBConfig{Host: "h", User: "u", Password: "p", Name: "n", Port: "1", SSLMode: "disable", TimeZone: "UTC"}
	want := "host=h user=u password=p dbname=n port=1 sslmode=disable TimeZone=UTC"
	if got := cfg.GetDSN(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
