package httpserver

import (
	"net/http"
	"time"

	"fridge-app-go/internal/config"
	"fridge-app-go/internal/metrics"
	"fridge-app-go/internal/transport/httpserver/handler"
	appmw "fridge-app-go/internal/transport/httpserver/middleware"
	"fridge-app-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the API. m and gatherer may be nil, in which case no
// request metrics are collected and /metrics is not served.
func NewRouter(cfg config.Config, handlers *handler.Handlers, m *metrics.Metrics, gatherer prometheus.Gatherer, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(appmw.NewCORS(cfg.CORSOrigins))
	if m != nil {
		r.Use(m.Middleware)
	}

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Put("/me", handlers.SetMe)

		r.Get("/users/{user_id}/fridges", handlers.ListUserFridges)
		r.Get("/fridges/by-code/{code}", handlers.GetFridgeByCode)
		r.Get("/fridges/{id}", handlers.GetFridge)
		r.Get("/fridges/{id}/members", handlers.ListMembers)

		current := appmw.NewCurrentUser(handlers.Fridges, log)
		r.Group(func(r chi.Router) {
			r.Use(current.Middleware)

			r.Get("/me", handlers.GetMe)
			r.Post("/fridges", handlers.CreateFridge)
			r.Post("/fridges/join", handlers.JoinFridge)
			r.Post("/fridges/{id}/leave", handlers.LeaveFridge)
		})

		if cfg.IsDevelopment() {
			r.Post("/admin/reset", handlers.ResetAllData)
		}
	})

	return r
}
