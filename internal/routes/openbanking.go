package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dinarpay/dinarpay/internal/openfinance"
)

// RegisterOpenBankingRoutes wires the open banking pass-through endpoints.
func RegisterOpenBankingRoutes(r fiber.Router, h *openfinance.Handler) {
	group := r.Group("/open-banking")
	group.Post("/connect-accounts", h.ConnectAccounts)
	group.Get("/accounts", h.Accounts)
	group.Get("/accounts/:accountId/transactions", h.AccountTransactions)
	group.Get("/dashboard", h.Dashboard)
	group.Post("/payments", h.InitiatePayment)
	group.Get("/payments/:paymentId", h.PaymentStatus)
	group.Get("/products", h.Products)
	group.Post("/products/:productId/apply", h.Apply)
	group.Post("/consents", h.RequestConsent)
	group.Get("/consents/:consentId", h.ConsentStatus)

	r.Get("/user/fx-quote", h.FxQuote)
}
