package app

import (
	"fridge-app-go/internal/config"
	fridgedomain "fridge-app-go/internal/domain/fridge"
	"fridge-app-go/internal/metrics"
	"fridge-app-go/internal/repository/documents"
	"fridge-app-go/internal/repository/inmemory"
	"fridge-app-go/pkg/logger"
)

// NewFridgeService wires the membership service over store. m may be nil.
func NewFridgeService(backend *Backend, cfg config.Config, m *metrics.Metrics, log logger.Logger) *fridgedomain.Service {
	storeLog := log.With("component", "store")
	observe := func(op, key string, err error) {
		storeLog.InternalError("store: "+op+" failed", err, "key", key)
		if m != nil {
			m.ObserveStoreError(op, key, err)
		}
	}
	repo := documents.New(backend.Store, documents.WithErrorObserver(observe))

	opts := []fridgedomain.Option{
		fridgedomain.WithLogger(log.With("component", "fridge")),
		fridgedomain.WithIdentity(fridgedomain.IdentityConfig{
			DefaultName:   cfg.Identity.DefaultName,
			AutoProvision: cfg.Identity.AutoProvision,
		}),
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL > 0 {
		opts = append(opts, fridgedomain.WithCache(inmemory.NewUserFridgesCache(), cfg.Cache.TTL))
	}
	if m != nil {
		opts = append(opts, fridgedomain.WithMetrics(m))
	}

	return fridgedomain.NewService(repo, opts...)
}
