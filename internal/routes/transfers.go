package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dinarpay/dinarpay/internal/transfers"
)

// RegisterTransferRoutes wires user-to-user transfer and recipient search endpoints.
func RegisterTransferRoutes(r fiber.Router, h *transfers.Handler) {
	group := r.Group("/transfers")
	group.Post("/user-to-user", h.Send)
	group.Get("/history", h.History)

	r.Get("/users/search", h.SearchUsers)
}
