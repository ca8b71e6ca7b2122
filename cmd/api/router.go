package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crucial707/hci-inventory/internal/auth"
	"github.com/crucial707/hci-inventory/internal/config"
	"github.com/crucial707/hci-inventory/internal/handlers"
	"github.com/crucial707/hci-inventory/internal/middleware"
	"github.com/crucial707/hci-inventory/internal/service"
)

// maxBodyBytes caps request bodies (1 MiB).
const maxBodyBytes = 1 << 20

func tokensFor(cfg config.Config) auth.Tokens {
	return auth.Tokens{
		Secret: []byte(cfg.JWTSecret),
		TTL:    time.Duration(cfg.JWTExpireHours) * time.Hour,
	}
}

// newRouter wires services, handlers and middleware onto a chi router.
func newRouter(db *sql.DB, cfg config.Config) http.Handler {
	policy := auth.Policy{EditorsCanLoan: cfg.EditorsCanLoan}
	svc := service.New(db, policy, auth.BcryptHasher{})
	tokens := tokensFor(cfg)

	assetHandler := &handlers.AssetHandler{Registry: svc.Registry, Changes: svc.Changes}
	loanHandler := &handlers.LoanHandler{Ledger: svc.Ledger}
	auditHandler := &handlers.AuditHandler{Audit: svc.Audit}
	userHandler := &handlers.UserHandler{Principals: svc.Principals}
	authHandler := &handlers.AuthHandler{Principals: svc.Principals, Tokens: tokens, Policy: policy}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(maxBodyBytes))

	// ==========================
	// Probes and metrics
	// ==========================
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// ==========================
	// Auth
	// ==========================
	r.With(middleware.AuthRateLimiter().Middleware).Post("/auth/login", authHandler.Login)

	// ==========================
	// Authenticated routes
	// ==========================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, svc.Principals))

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", assetHandler.ListAssets)
			r.Post("/", assetHandler.CreateAsset)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", assetHandler.GetAsset)
				r.Put("/", assetHandler.UpdateAsset)
				r.Delete("/", assetHandler.DeleteAsset)
				r.Get("/changes", assetHandler.ListChanges)
				r.Get("/checkout", loanHandler.Active)
				r.Post("/checkout", loanHandler.Checkout)
				r.Get("/checkouts", loanHandler.History)
			})
		})

		r.Post("/checkouts/{id}/return", loanHandler.Return)
		r.Get("/audit", auditHandler.ListAudit)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)
			r.Put("/{id}", userHandler.UpdateUser)
			r.Delete("/{id}", userHandler.DeleteUser)
		})
	})

	return r
}
