package app

import (
	"context"
	"fmt"
	"net/http"

	"fridge-app-go/internal/config"
	"fridge-app-go/internal/metrics"
	"fridge-app-go/internal/transport/httpserver"
	"fridge-app-go/internal/transport/httpserver/handler"
	"fridge-app-go/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	backend    *Backend
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(ctx, cfg, log)
}

func NewWithConfig(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: opening store", "backend", cfg.Store.Backend)
	backend, err := OpenBackend(cfg, log)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	service := NewFridgeService(backend, cfg, m, log)

	fixed, err := service.ReconcileMemberCounts(ctx)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("reconcile member counts: %w", err)
	}
	log.Info("app: member counts checked", "repaired", fixed)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handler.New(service, log.With("component", "http")), m, registry, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		backend:    backend,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Config() config.Config {
	return a.cfg
}

func (a *App) Close() error {
	if a.backend == nil {
		return nil
	}
	return a.backend.Close()
}
