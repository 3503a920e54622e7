package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dinarpay/dinarpay/internal/aml"
)

// RegisterAMLRoutes wires the monitoring endpoints.
func RegisterAMLRoutes(r fiber.Router, h *aml.Handler) {
	group := r.Group("/aml")
	group.Get("/alerts", h.Alerts)
	group.Get("/dashboard", h.Dashboard)
}
