package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dinarpay/dinarpay/internal/transactions"
)

// RegisterTransactionRoutes wires the transaction history endpoint.
func RegisterTransactionRoutes(r fiber.Router, h *transactions.Handler) {
	r.Get("/transactions", h.List)
}
