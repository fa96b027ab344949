/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for a frontend

ROUTE GROUPS:
  /api/customers/*   Registry, schedules, payment history
  /api/payments/*    Payment edits and receipts
  /api/import/*      Workbook ingestion

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
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

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Customer routes
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Get("/{name}", h.GetCustomer)
			r.Get("/{name}/schedule", h.GetSchedule)
			r.Get("/{name}/payments", h.ListPayments)
			r.Post("/{name}/payments", h.SubmitPayment)
		})

		// Payment routes
		r.Route("/payments", func(r chi.Router) {
			r.Put("/{id}", h.EditPayment)
			r.Get("/{id}/receipt", h.GetReceipt)
		})

		// Import routes
		r.Route("/import", func(r chi.Router) {
			r.Post("/customers", h.ImportCustomers)
			r.Post("/payments", h.ImportPayments)
		})
	})

	return r
}
