package app

import (
	"fmt"

	"fridge-app-go/internal/config"
	"fridge-app-go/internal/db"
	"fridge-app-go/internal/kv"
	"fridge-app-go/pkg/logger"
	"gorm.io/gorm"
)

// Backend owns the key-value store and, for the postgres backend, the
// database connection behind it.
type Backend struct {
	Store kv.Store
	db    *gorm.DB
}

func OpenBackend(cfg config.Config, log logger.Logger) (*Backend, error) {
	log = log.With("backend", cfg.Store.Backend)

	switch cfg.Store.Backend {
	case config.BackendMemory:
		log.Warn("store: in-memory backend, data is lost on exit")
		return &Backend{Store: kv.NewMemoryStore()}, nil

	case config.BackendFile:
		store, err := kv.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		log.Info("store: opened", "dir", cfg.Store.Dir)
		return &Backend{Store: store}, nil

	case config.BackendRedis:
		store, err := kv.NewValkeyStore(kv.ValkeyConfig{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Prefix:   cfg.Store.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		log.Info("store: opened", "addr", cfg.Store.Redis.Addr, "prefix", cfg.Store.Redis.Prefix)
		return &Backend{Store: store}, nil

	case config.BackendPostgres:
		dbConn, err := db.NewPostgres(cfg.DB, log)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(dbConn, log); err != nil {
			closeDB(dbConn)
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &Backend{Store: kv.NewPostgresStore(dbConn), db: dbConn}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func (b *Backend) Close() error {
	if err := b.Store.Close(); err != nil {
		return err
	}
	if b.db == nil {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(dbConn *gorm.DB) {
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
