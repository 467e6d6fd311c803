/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for operator tooling

ROUTE GROUPS:
  /api/payments/*   Payment evaluation
  /api/accounts/*   Account, transaction, and limit management
  /metrics          Prometheus scrape endpoint
*/
package api

import (
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(allowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/payments", func(r chi.Router) {
			r.Post("/approve", h.ApprovePayment)
			r.Post("/check", h.CheckLimit)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Put("/", h.SaveAccount)
			r.Route("/{type}/{value}", func(r chi.Router) {
				r.Get("/", h.GetAccount)
				r.Get("/transactions", h.ListTransactions)
				r.Post("/transactions", h.RecordTransaction)
				r.Get("/limits", h.ListLimits)
				r.Put("/limits", h.SetLimit)
			})
		})
	})

	if h.Metrics != nil {
		r.Method("GET", "/metrics", h.Metrics.Handler())
	}

	return r
}
