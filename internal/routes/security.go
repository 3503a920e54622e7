package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dinarpay/dinarpay/internal/security"
)

// RegisterSecurityRoutes wires the device-security endpoints.
func RegisterSecurityRoutes(r fiber.Router, h *security.Handler) {
	group := r.Group("/security")
	group.Get("/status", h.Status)
	group.Post("/initialize", h.Initialize)
}
