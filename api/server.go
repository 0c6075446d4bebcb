/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/rentald: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/tenants", func(r chi.Router) {
			r.Get("/", h.ListTenants)
			r.Post("/", h.CreateTenant)
			r.Get("/{id}", h.GetTenant)
			r.Put("/{id}", h.UpdateTenant)
			r.Delete("/{id}", h.DeleteTenant)
			r.Get("/{id}/statement", h.GetStatement)
		})

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", h.ListProperties)
			r.Post("/", h.CreateProperty)
			r.Get("/{id}", h.GetProperty)
			r.Put("/{id}", h.UpdateProperty)
			r.Delete("/{id}", h.DeleteProperty)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", h.ListPayments)
			r.Post("/", h.CreatePayment)
			r.Get("/{id}", h.GetPayment)
			r.Put("/{id}", h.UpdatePayment)
			r.Delete("/{id}", h.DeletePayment)
		})

		r.Get("/dashboard", h.GetDashboard)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/income", h.GetIncomeReport)
			r.Get("/overdue", h.GetOverdueReport)
			r.Get("/occupancy", h.GetOccupancyReport)
			r.Get("/rent-income", h.GetRentIncomeReport)
		})

		r.Route("/snapshot", func(r chi.Router) {
			r.Get("/", h.ExportSnapshot)
			r.Post("/", h.ImportSnapshot)
		})
	})

	return r
}
