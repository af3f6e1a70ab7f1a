// Package router wires the HTTP route table.
// Kept separate from main so end-to-end tests exercise the same routes and
// middleware chain as the deployed server.
package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/accountd/accountd/internal/handler"
	"github.com/accountd/accountd/internal/middleware"
)

// Config holds everything the route table depends on.
type Config struct {
	Logger *slog.Logger

	Base     *handler.Handler
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Seed     *handler.SeedHandler
	AuthMW   middleware.AuthConfig
	CORS     middleware.CORSConfig
	Security middleware.SecurityConfig

	// Development enables the seed route; the bypass token is controlled
	// separately via AuthMW.DevBypass.
	Development bool
}

// New configures the chi router with all routes and middleware.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))

	// Health endpoints (no auth required)
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)

	// Root info endpoint
	r.Get("/", cfg.Base.Hello)

	r.Route("/api", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/login", cfg.Auth.Login)
		r.Post("/auth/register", cfg.Auth.Register)

		// Development fixtures
		if cfg.Development && cfg.Seed != nil {
			r.Post("/seed/create-test-user", cfg.Seed.CreateTestUser)
		}

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.AuthMW))

			r.Get("/user", cfg.User.Me)
			r.Put("/update-user-data", cfg.User.Update)
		})
	})

	// 404 and 405 handlers
	r.NotFound(cfg.Base.NotFound)
	r.MethodNotAllowed(cfg.Base.MethodNotAllowed)

	return r
}
