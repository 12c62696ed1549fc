/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend
  5. Metrics:    Prometheus request counters (optional)

ROUTE GROUPS:
  /api/employees/*      Employees, year accounts, requests, comp grants
  /api/comp-grants/*    Bulk comp grants
  /api/years/*          Year overview and spreadsheet export
  /api/scenarios/*      Demo scenarios
  /metrics              Prometheus scrape endpoint
  /healthz              Liveness

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

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

// RouterOptions toggles optional parts of the router.
type RouterOptions struct {
	CORSOrigins []string
	Metrics     bool
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	if opts.Metrics {
		r.Use(metricsMiddleware)
		r.Handle("/metrics", metricsHandler())
	}

	r.Get("/healthz", h.Health)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/lookup", h.LookupEmployees)
			r.Get("/{id}", h.GetEmployee)
			r.Post("/{id}/deactivate", h.DeactivateEmployee)

			r.Get("/{id}/years/{year}", h.GetYear)
			r.Put("/{id}/years/{year}", h.SetEntitlement)
			r.Get("/{id}/years/{year}/monthly", h.GetMonthlyUsage)

			r.Post("/{id}/requests", h.SubmitRequest)
			r.Post("/{id}/comp-grants", h.GrantComp)
		})

		r.Post("/comp-grants/bulk", h.BulkGrantComp)

		r.Route("/years/{year}", func(r chi.Router) {
			r.Get("/summary", h.GetYearOverview)
			r.Get("/summary.xlsx", h.ExportYearOverview)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
