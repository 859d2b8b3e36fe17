package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct{}

// NewHealthHandler constructs handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Live reports process liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up"})
}

// Ready reports readiness to serve traffic.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ready"})
}
