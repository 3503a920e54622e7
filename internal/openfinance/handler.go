package openfinance

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the open banking pass-through endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs the open banking HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func userID(c *fiber.Ctx) (string, error) {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return "", fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	return uid, nil
}

func mapError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fiber.NewError(http.StatusBadGateway, apiErr.Detail)
	}
	return fiber.NewError(http.StatusInternalServerError, err.Error())
}

// ConnectAccounts links the caller's bank accounts via a consent grant.
func (h *Handler) ConnectAccounts(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	res, err := h.service.ConnectAccounts(c.UserContext(), uid)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":  "accounts connected",
		"consent":  res.Consent,
		"accounts": accountItems(res.Accounts),
		"total":    len(res.Accounts),
	})
}

// Accounts lists the caller's linked bank accounts.
func (h *Handler) Accounts(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	accounts, err := h.service.Accounts(c.UserContext(), uid)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"accounts": accountItems(accounts),
		"total":    len(accounts),
	})
}

// Dashboard aggregates linked accounts, total balance and FX rates.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	dash, err := h.service.DashboardFor(c.UserContext(), uid)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"accounts":      accountItems(dash.Accounts),
		"total_balance": dash.TotalBalance,
		"currency":      dash.Currency,
		"exchange_rates": fiber.Map{
			"base_currency": dash.Rates.BaseCurrency,
			"rates":         dash.Rates.Rates,
			"last_updated":  dash.Rates.LastUpdated,
		},
	})
}

// AccountTransactions returns the statement for one linked account.
func (h *Handler) AccountTransactions(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	accountID := c.Params("accountId")
	if accountID == "" {
		return fiber.NewError(http.StatusBadRequest, "missing account id")
	}
	txs, err := h.service.AccountTransactions(c.UserContext(), uid, accountID, c.QueryInt("limit", 50))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"account_id":   accountID,
		"transactions": txs,
		"total":        len(txs),
	})
}

// FxQuote converts an amount between currencies at the gateway rate.
func (h *Handler) FxQuote(c *fiber.Ctx) error {
	if _, err := userID(c); err != nil {
		return err
	}
	from := c.Query("from_currency", "JOD")
	to := c.Query("to_currency", "USD")
	amount := c.QueryFloat("amount", 1)
	if amount <= 0 {
		return fiber.NewError(http.StatusBadRequest, "amount must be positive")
	}
	conversion, err := h.service.Client().Convert(c.UserContext(), from, to, amount)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(conversion)
}

type paymentRequest struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Recipient string  `json:"recipient"`
	Reference string  `json:"reference"`
}

// InitiatePayment starts a payment through the gateway.
func (h *Handler) InitiatePayment(c *fiber.Ctx) error {
	if _, err := userID(c); err != nil {
		return err
	}
	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Amount <= 0 {
		return fiber.NewError(http.StatusBadRequest, "amount must be positive")
	}
	if req.Recipient == "" {
		return fiber.NewError(http.StatusBadRequest, "recipient is required")
	}
	payment, err := h.service.Client().InitiatePayment(c.UserContext(), PaymentRequest{
		Amount:    req.Amount,
		Currency:  req.Currency,
		Recipient: req.Recipient,
		Reference: req.Reference,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(payment)
}

// PaymentStatus returns the current state of an initiated payment.
func (h *Handler) PaymentStatus(c *fiber.Ctx) error {
	if _, err := userID(c); err != nil {
		return err
	}
	paymentID := c.Params("paymentId")
	if paymentID == "" {
		return fiber.NewError(http.StatusBadRequest, "missing payment id")
	}
	payment, err := h.service.Client().PaymentStatus(c.UserContext(), paymentID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(payment)
}

// Products lists financial products available to the caller.
func (h *Handler) Products(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	products, err := h.service.Client().ListProducts(c.UserContext(), uid)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"products": products,
		"total":    len(products),
	})
}

// Apply submits a product application.
func (h *Handler) Apply(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	productID := c.Params("productId")
	if productID == "" {
		return fiber.NewError(http.StatusBadRequest, "missing product id")
	}
	var details map[string]any
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&details); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}
	application, err := h.service.Client().ApplyForProduct(c.UserContext(), productID, uid, details)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(application)
}

type consentRequest struct {
	Permissions []string `json:"permissions"`
}

// RequestConsent starts a consent grant for data access.
func (h *Handler) RequestConsent(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req consentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	permissions := req.Permissions
	if len(permissions) == 0 {
		permissions = defaultPermissions
	}
	consent, err := h.service.Client().RequestConsent(c.UserContext(), uid, permissions)
	if err != nil {
		return mapError(err)
	}

	expiresAt, _ := time.Parse(time.RFC3339, consent.ExpiresAt)
	if err := h.service.repo.SaveConsent(c.UserContext(), ConsentRecord{
		ConsentID: consent.ConsentID,
		UserID:    uid,
		Status:    consent.Status,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(consent)
}

// ConsentStatus returns the state of a consent grant.
func (h *Handler) ConsentStatus(c *fiber.Ctx) error {
	if _, err := userID(c); err != nil {
		return err
	}
	consentID := c.Params("consentId")
	if consentID == "" {
		return fiber.NewError(http.StatusBadRequest, "missing consent id")
	}
	consent, err := h.service.Client().ConsentStatus(c.UserContext(), consentID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(consent)
}

func accountItems(accounts []LinkedAccount) []fiber.Map {
	items := make([]fiber.Map, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, fiber.Map{
			"account_id":        a.AccountID,
			"account_name":      a.AccountName,
			"bank_name":         a.BankName,
			"bank_code":         a.BankCode,
			"account_type":      a.AccountType,
			"currency":          a.Currency,
			"balance":           a.Balance,
			"available_balance": a.AvailableBalance,
			"last_updated":      a.UpdatedAt.Format(time.RFC3339),
		})
	}
	return items
}
