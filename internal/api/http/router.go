package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/lostfound-service/internal/api/http/handlers"
	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/observability"
	"github.com/spec-kit/lostfound-service/internal/storage"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Categories     *handlers.CategoriesHandler
	Items          *handlers.ItemsHandler
	Messages       *handlers.MessagesHandler
	Users          *handlers.UsersHandler
	Dashboard      *handlers.DashboardHandler
	Storage        *handlers.StorageHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}
	app.Get(storage.RoutePrefix+"/:bucket/*", cfg.Storage.Get)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.SignUp)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/confirm", cfg.Auth.Confirm)
	authGroup.Get("/confirm", cfg.Auth.Confirm)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	optional := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Optional, h}
	}
	user := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), h}
	}
	admin := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAdmin(), h}
	}

	app.Get("/categories", user(cfg.Categories.List)...)
	app.Get("/categories/active", user(cfg.Categories.ListActive)...)
	app.Post("/categories", admin(cfg.Categories.Create)...)
	app.Patch("/categories/:id", admin(cfg.Categories.Update)...)
	app.Delete("/categories/:id", admin(cfg.Categories.Delete)...)

	app.Get("/items", user(cfg.Items.List)...)
	app.Get("/items/:id", user(cfg.Items.Get)...)
	app.Post("/items", user(cfg.Items.Create)...)
	app.Patch("/items/:id", user(cfg.Items.Update)...)
	app.Delete("/items/:id", user(cfg.Items.Delete)...)
	app.Post("/items/:id/claim-toggle", user(cfg.Items.ToggleClaim)...)

	app.Post("/messages", optional(cfg.Messages.Create)...)
	app.Post("/feedback", optional(cfg.Messages.Feedback)...)
	app.Get("/messages", admin(cfg.Messages.List)...)
	app.Post("/messages/:id/read", admin(cfg.Messages.MarkRead)...)
	app.Delete("/messages/:id", admin(cfg.Messages.Delete)...)

	app.Get("/users", admin(cfg.Users.List)...)
	app.Get("/dashboard/stats", user(cfg.Dashboard.Stats)...)
}
