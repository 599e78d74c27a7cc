package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/auth"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/middleware"
)

// Router builds the full route tree. Everything under /api except the
// session exchange requires a valid session; role checks live in the
// services, not here.
func (a *API) Router(jwtManager *auth.JWTManager) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)

	r.Get("/health", HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/session", a.CreateSession)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager, a.auth))

			r.Post("/register", a.Register)

			r.Route("/events", func(r chi.Router) {
				r.Get("/", a.ListEvents)
				r.Post("/", a.CreateEvent)
				r.Get("/{eventID}", a.GetEvent)
				r.Patch("/{eventID}/status", a.TransitionEventStatus)
				r.Get("/{eventID}/payments", a.ListEventPayments)
				r.Post("/{eventID}/transactions", a.GenerateTransactions)
			})

			r.Put("/payments/{trackingID}", a.RecordPayment)
			r.Post("/payments/batch", a.BatchRecordPayments)
			r.Get("/my/payments", a.MyPayments)

			r.Get("/members/authorized", a.ListAuthorizedMembers)
			r.Get("/members/registered", a.ListRegisteredMembers)

			r.Get("/dashboard", a.Dashboard)
			r.Get("/transactions", a.ListTransactions)

			r.Get("/cache-status", a.CacheStatus)
			r.Delete("/cache-status", a.ClearCache)
		})
	})

	return r
}
