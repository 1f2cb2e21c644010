package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-tickets/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	OAuth    *handlers.OAuthHandler
	Register *handlers.RegisterHandler
	Tickets  *handlers.TicketsHandler
	Events   *handlers.EventsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/google", cfg.OAuth.Login)
	app.Get("/google/callback", cfg.OAuth.Callback)

	api := app.Group("/api")
	api.Post("/auth/register", cfg.Register.Register)
	api.Get("/tickets/:id", cfg.Tickets.GetTicket)
	api.Get("/events", cfg.Events.Get)
}
