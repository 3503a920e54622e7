package transactions

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the transaction listing endpoint.
type Handler struct {
	repo Repository
}

// NewHandler builds a transaction HTTP handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type transactionResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Type        string  `json:"transaction_type"`
	AmountFils  int64   `json:"amount_fils"`
	Currency    string  `json:"currency"`
	ToCurrency  string  `json:"to_currency,omitempty"`
	Rate        float64 `json:"exchange_rate,omitempty"`
	Status      string  `json:"status"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// List returns the caller's transactions, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	opts := ListOptions{
		Limit:  c.QueryInt("limit", 10),
		Offset: c.QueryInt("offset", 0),
		Type:   c.Query("type"),
	}
	txs, err := h.repo.ListByUser(c.UserContext(), uid, opts)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"transactions": toResponses(txs),
		"total":        len(txs),
		"limit":        opts.normalize().Limit,
		"offset":       opts.normalize().Offset,
	})
}

func toResponses(txs []Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionResponse{
			ID:          tx.ID,
			UserID:      tx.UserID,
			Type:        tx.Type,
			AmountFils:  tx.AmountFils,
			Currency:    tx.Currency,
			ToCurrency:  tx.ToCurrency,
			Rate:        tx.Rate,
			Status:      tx.Status,
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   tx.UpdatedAt.Format(time.RFC3339),
		})
	}
	return out
}
