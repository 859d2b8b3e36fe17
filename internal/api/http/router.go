package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/room-booking/internal/api/http/handlers"
	"github.com/spec-kit/room-booking/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Reservations   *handlers.ReservationsHandler
	AdminRooms     *handlers.AdminRoomsHandler
	AdminUsers     *handlers.AdminUsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Booking routes require a valid bearer
// token; everything under /api/admin additionally requires the admin role.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	reservations := api.Group("/reservations", cfg.AuthMiddleware.Handle)
	reservations.Get("/", cfg.Reservations.ListAll)
	reservations.Post("/", cfg.Reservations.Create)
	reservations.Get("/:roomId", cfg.Reservations.ListByRoom)
	reservations.Delete("/:id", cfg.Reservations.Delete)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/rooms", cfg.AdminRooms.List)
	admin.Post("/rooms", cfg.AdminRooms.Create)
	admin.Put("/rooms/:id", cfg.AdminRooms.Update)
	admin.Patch("/rooms/:id/name", cfg.AdminRooms.Rename)
	admin.Patch("/rooms/:id/capacity", cfg.AdminRooms.ChangeCapacity)
	admin.Delete("/rooms/:id", cfg.AdminRooms.Delete)
	admin.Get("/users", cfg.AdminUsers.List)
	admin.Get("/users/:id", cfg.AdminUsers.Get)
	admin.Put("/users/:id", cfg.AdminUsers.Update)
	admin.Patch("/users/:id/email", cfg.AdminUsers.ChangeEmail)
	admin.Delete("/users/:id", cfg.AdminUsers.Delete)
}
