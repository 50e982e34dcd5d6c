package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-console/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-console/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Analytics      *handlers.AnalyticsHandler
	Activity       *handlers.ActivityHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/tokens", cfg.AuthMiddleware.Handle, auth.RequireRole(auth.RoleAdmin), cfg.Auth.MintToken)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/search", cfg.Tickets.SearchTickets)
	tickets.Get("/counts", cfg.Tickets.TicketCounts)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)

	analytics := api.Group("/analytics")
	analytics.Get("/dashboard", cfg.Analytics.Dashboard)
	analytics.Get("/kpis", cfg.Analytics.KPIs)
	analytics.Get("/sla", cfg.Analytics.SLAFunnel)
	analytics.Get("/top-issues", cfg.Analytics.TopIssues)
	analytics.Get("/teams", cfg.Analytics.Teams)
	analytics.Get("/lifecycle", cfg.Analytics.Lifecycle)
	analytics.Get("/forecast", cfg.Analytics.Forecast)
	analytics.Get("/access-requests", cfg.Analytics.AccessRequests)

	activity := api.Group("/activity")
	activity.Get("/events", cfg.Activity.Events)
	activity.Get("/audit", auth.RequireRole(auth.RoleAdmin), cfg.Activity.Audit)
}
