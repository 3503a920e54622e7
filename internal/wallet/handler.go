package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type walletResponse struct {
	ID                    string `json:"id"`
	UserID                string `json:"user_id"`
	JDBalanceFils         int64  `json:"jd_balance_fils"`
	StablecoinBalanceFils int64  `json:"stablecoin_balance_fils"`
	CreatedAt             string `json:"created_at"`
	UpdatedAt             string `json:"updated_at"`
}

// Balance returns the caller's wallet, creating it on first access.
func (h *Handler) Balance(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	w, err := h.service.GetOrCreate(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toWalletResponse(w))
}

type depositRequest struct {
	Currency    string `json:"currency"`
	AmountFils  int64  `json:"amount_fils"`
	Description string `json:"description"`
}

// Deposit credits the caller's wallet.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Deposit(c.UserContext(), DepositInput{
		UserID:      uid,
		Currency:    req.Currency,
		AmountFils:  req.AmountFils,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrUnknownCurrency):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":        "Deposit completed successfully",
		"transaction_id": res.TransactionID,
		"new_balance":    res.Wallet.BalanceFor(req.Currency),
		"wallet":         toWalletResponse(res.Wallet),
	})
}

type exchangeRequest struct {
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
	AmountFils   int64  `json:"amount_fils"`
}

// Exchange converts between JD and the stablecoin.
func (h *Handler) Exchange(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req exchangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Exchange(c.UserContext(), ExchangeInput{
		UserID:       uid,
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		AmountFils:   req.AmountFils,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		case errors.Is(err, ErrInsufficientFunds):
			return fiber.NewError(http.StatusBadRequest, "insufficient "+req.FromCurrency+" balance")
		case errors.Is(err, ErrSameCurrency), errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrUnknownCurrency):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":                     "Exchange completed successfully",
		"transaction_id":              res.TransactionID,
		"exchange_rate":               res.Rate,
		"new_jd_balance_fils":         res.Wallet.JDBalanceFils,
		"new_stablecoin_balance_fils": res.Wallet.StablecoinBalanceFils,
	})
}

func toWalletResponse(w Wallet) walletResponse {
	return walletResponse{
		ID:                    w.ID,
		UserID:                w.UserID,
		JDBalanceFils:         w.JDBalanceFils,
		StablecoinBalanceFils: w.StablecoinBalanceFils,
		CreatedAt:             w.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             w.UpdatedAt.Format(time.RFC3339),
	}
}
