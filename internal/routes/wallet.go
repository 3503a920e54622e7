package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dinarpay/dinarpay/internal/wallet"
)

// RegisterWalletRoutes wires balance and wallet operation endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	group := r.Group("/wallet")
	group.Get("", h.Balance)
	group.Post("/deposit", h.Deposit)
	group.Post("/exchange", h.Exchange)
}
