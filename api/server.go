/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions: the
  wiring layer between URLs and handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       The shell runs as a local webview on its own origin

ROUTE GROUPS:
  /api/perfis/*             Profile selection screen
  /api/boletos/*            Ledger operations
  /api/dashboard            Rolling bucket summary
  /api/relatorios/{mes}     Monthly balance report

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

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Profile-ID"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Profile selection
		r.Route("/perfis", func(r chi.Router) {
			r.Get("/", h.ListProfiles)
			r.Post("/", h.CreateProfile)
			r.Post("/{id}/login", h.Login)
			r.Delete("/{id}", h.DeleteProfile)
		})

		// Ledger operations
		r.Route("/boletos", func(r chi.Router) {
			r.Get("/", h.ListInstallments)
			r.Post("/", h.GenerateSchedule)
			r.Put("/{id}", h.EditInstallment)
			r.Delete("/{id}", h.DeleteInstallment)
			r.Post("/{id}/pagamento", h.RegisterPayment)
			r.Delete("/{id}/pagamento", h.ReversePayment)
		})

		// Aggregation reporters
		r.Get("/dashboard", h.DashboardSummary)
		r.Get("/relatorios/{mes}", h.MonthlyReport)
	})

	return r
}
