/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client IP from proxy headers
  3. logging:    Structured request logging (zerolog)
  4. metrics:    Prometheus request counters and latency
  5. Recoverer:  Panic recovery (500 instead of crash)
  6. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/accounts/*          Account management
  /api/transactions/*      Transaction CRUD (balance-mutating)
  /api/savings/*           Savings deposits and withdrawals
  /api/users/{id}/limits/* Spending limits
  /healthz                 Liveness probe
  /metrics                 Prometheus scrape endpoint

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.Log))
	r.Use(metricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Account routes
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Post("/", h.ConnectAccount)
			r.Post("/default", h.ProvisionDefaultAccount)
			r.Get("/{id}", h.GetAccount)
			r.Delete("/{id}", h.DisconnectAccount)
		})

		// Transaction routes
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Get("/{id}", h.GetTransaction)
			r.Put("/{id}", h.UpdateTransaction)
			r.Delete("/{id}", h.DeleteTransaction)
		})

		// Savings routes
		r.Route("/savings", func(r chi.Router) {
			r.Get("/", h.GetSavings)
			r.Post("/deposits", h.DepositSavings)
			r.Post("/withdrawals", h.WithdrawSavings)
			r.Delete("/{id}", h.DeleteSavingsMovement)
		})

		// Spending limit routes
		r.Route("/users/{userID}/limits", func(r chi.Router) {
			r.Get("/", h.GetLimits)
			r.Get("/status", h.GetLimitStatus)
			r.Put("/{type}", h.SetLimit)
			r.Post("/reset", h.ResetLimits)
			r.Post("/precheck", h.PrecheckLimits)
		})
	})

	// Operational endpoints
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metricsHandler())

	return r
}

// requestLogger emits one structured log line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
