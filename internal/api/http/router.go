package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-ticketing/internal/api/http/handlers"
	"github.com/spec-kit/event-ticketing/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Events         *handlers.EventsHandler
	Transactions   *handlers.TransactionsHandler
	AuthMiddleware *auth.AuthMiddleware
	UploadsDir     string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.UploadsDir != "" {
		app.Static("/uploads", cfg.UploadsDir)
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	events := app.Group("/events")
	events.Get("/", cfg.Events.ListEvents)
	events.Get("/:id", cfg.Events.GetEvent)
	events.Post("/:id/register", cfg.AuthMiddleware.Handle, cfg.Events.RegisterForEvent)
	events.Post("/:id/vouchers", cfg.AuthMiddleware.Handle, auth.RequireOrganizer(), cfg.Events.CreateVoucher)

	transactions := app.Group("/transactions", cfg.AuthMiddleware.Handle)
	transactions.Get("/pending", auth.RequireOrganizer(), cfg.Transactions.ListPending)
	transactions.Get("/user/:userId", cfg.Transactions.ListForUser)
	transactions.Post("/:id/payment-proof", cfg.Transactions.SubmitPaymentProof)
	transactions.Post("/:id/admin-update", auth.RequireOrganizer(), cfg.Transactions.AdminUpdate)
}
