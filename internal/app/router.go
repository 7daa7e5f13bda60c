package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerline/ledgerline/internal/auth"
	"github.com/ledgerline/ledgerline/internal/customers"
	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/render"
	"github.com/ledgerline/ledgerline/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AuthMiddleware  auth.Middleware
	AuthHandler     *auth.Handler
	UsersHandler    *users.Handler
	CustomerHandler *customers.Handler
	InvoiceHandler  *invoices.Handler
	RenderHandler   *render.Handler
}

// NewRouter constructs the chi.Router with Ledgerline defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/api", func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireAuth)

		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/customers", params.CustomerHandler.MountRoutes)
		r.Route("/invoices", func(r chi.Router) {
			params.InvoiceHandler.MountRoutes(r)
			params.RenderHandler.MountRoutes(r)
		})
		r.Route("/payments", params.InvoiceHandler.MountPaymentRoutes)
	})

	return r
}
