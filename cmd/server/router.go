package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskflow-api/internal/api"
	"github.com/phrazzld/taskflow-api/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rate limiter endpoint names.
const (
	rateLimitRegister = "register"
	rateLimitLogin    = "login"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if app.config.Server.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.TraceMiddleware(app.logger))
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(app.metrics.Instrument)

	authHandler := api.NewAuthHandler(app.authService)
	taskHandler := api.NewTaskHandler(app.taskService, app.queryEngine)
	authMiddleware := middleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.With(app.rateLimiter.Limit(rateLimitRegister)).Post("/auth/register", authHandler.Register)
		r.With(app.rateLimiter.Limit(rateLimitLogin)).Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)
			r.Get("/users/{id}", authHandler.GetUser)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/query", taskHandler.Query)
				r.Get("/my-tasks", taskHandler.MyTasks)
				r.Get("/overdue", taskHandler.Overdue)
				r.Get("/user/{userId}", taskHandler.ByUser)
				r.Get("/status/{status}", taskHandler.ByStatus)
				r.Get("/{id}", taskHandler.Get)
				r.Put("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
			})
		})
	})

	r.Get("/health", api.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	return r
}
