package transfers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dinarpay/dinarpay/internal/identity"
	"github.com/dinarpay/dinarpay/internal/wallet"
)

// Handler exposes transfer and recipient-search endpoints.
type Handler struct {
	service *Service
	ids     *identity.Service
}

// NewHandler constructs a transfer HTTP handler.
func NewHandler(service *Service, ids *identity.Service) *Handler {
	return &Handler{service: service, ids: ids}
}

type sendRequest struct {
	RecipientEmail string `json:"recipient_email"`
	Currency       string `json:"currency"`
	AmountFils     int64  `json:"amount_fils"`
	Description    string `json:"description"`
}

// Send processes a user-to-user transfer.
func (h *Handler) Send(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Send(c.UserContext(), Input{
		FromUserID:     uid,
		RecipientEmail: req.RecipientEmail,
		Currency:       req.Currency,
		AmountFils:     req.AmountFils,
		Description:    req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInsufficientFunds):
			return fiber.NewError(http.StatusBadRequest, "insufficient funds")
		case errors.Is(err, ErrRecipientNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrSelfTransfer), errors.Is(err, wallet.ErrInvalidAmount), errors.Is(err, wallet.ErrUnknownCurrency):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"transaction_id": res.TransactionID,
		"from_balance":   res.FromBalance,
		"to_balance":     res.ToBalance,
		"recipient": fiber.Map{
			"id":        res.Recipient.ID,
			"email":     res.Recipient.Email,
			"full_name": res.Recipient.FullName,
		},
		"completed_at": res.CompletedAt.Format(time.RFC3339),
	})
}

// History lists the caller's transfer transactions.
func (h *Handler) History(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	txs, err := h.service.History(c.UserContext(), uid, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	items := make([]fiber.Map, 0, len(txs))
	for _, tx := range txs {
		items = append(items, fiber.Map{
			"id":          tx.ID,
			"amount_fils": tx.AmountFils,
			"currency":    tx.Currency,
			"status":      tx.Status,
			"description": tx.Description,
			"created_at":  tx.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"transfers": items, "total": len(items)})
}

// SearchUsers finds transfer recipients by email prefix.
func (h *Handler) SearchUsers(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	users, err := h.ids.Search(c.UserContext(), c.Query("q"), c.QueryInt("limit", 10))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	results := make([]fiber.Map, 0, len(users))
	for _, user := range users {
		if user.ID == uid || !user.Active {
			continue
		}
		results = append(results, fiber.Map{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"users": results, "total": len(results)})
}
