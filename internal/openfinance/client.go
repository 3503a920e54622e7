package openfinance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dinarpay/dinarpay/internal/config"
)

// APIError is a non-2xx response from the Open Finance gateway.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("open finance api: status %d: %s", e.Status, e.Detail)
}

// Client issues authenticated requests to the Jordan Open Finance gateway.
// With Sandbox enabled it returns deterministic fixtures instead of calling
// out, matching the gateway's published sandbox payloads.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	apiKey       string
	sandbox      bool
	httpClient   *http.Client
}

// NewClient builds a client from configuration.
func NewClient(cfg config.OpenFinance) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		apiKey:       cfg.APIKey,
		sandbox:      cfg.Sandbox,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Sandbox reports whether the client serves fixtures.
func (c *Client) Sandbox() bool { return c.sandbox }

// AccessToken fetches an OAuth2 client-credentials token.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c.sandbox {
		return "sandbox_access_token_" + uuid.NewString()[:8], nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"scope":         {"ais pis fps fx"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", readAPIError(resp)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	return payload.AccessToken, nil
}

// ListAccounts returns the user's linked bank accounts (AIS).
func (c *Client) ListAccounts(ctx context.Context, consentID string) ([]Account, error) {
	if c.sandbox {
		return sandboxAccounts(), nil
	}
	var payload struct {
		Accounts []Account `json:"accounts"`
	}
	err := c.get(ctx, "/ais/v1/accounts", url.Values{"consent_id": {consentID}}, &payload)
	return payload.Accounts, err
}

// AccountBalance returns the balance of one linked account (AIS).
func (c *Client) AccountBalance(ctx context.Context, accountID, consentID string) (Balance, error) {
	if c.sandbox {
		return sandboxBalance(accountID), nil
	}
	var balance Balance
	err := c.get(ctx, "/ais/v1/accounts/"+accountID+"/balance", url.Values{"consent_id": {consentID}}, &balance)
	return balance, err
}

// AccountTransactions returns the account statement (AIS).
func (c *Client) AccountTransactions(ctx context.Context, accountID, consentID string, limit int) ([]AccountTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if c.sandbox {
		return sandboxAccountTransactions(accountID, limit), nil
	}
	var payload struct {
		Transactions []AccountTransaction `json:"transactions"`
	}
	params := url.Values{"consent_id": {consentID}, "limit": {strconv.Itoa(limit)}}
	err := c.get(ctx, "/ais/v1/accounts/"+accountID+"/transactions", params, &payload)
	return payload.Transactions, err
}

// InitiatePayment starts a payment (PIS).
func (c *Client) InitiatePayment(ctx context.Context, req PaymentRequest) (Payment, error) {
	if c.sandbox {
		return sandboxPayment(req), nil
	}
	var payment Payment
	err := c.post(ctx, "/pis/v1/payments", req, &payment)
	return payment, err
}

// PaymentStatus returns the current status of a payment (PIS).
func (c *Client) PaymentStatus(ctx context.Context, paymentID string) (Payment, error) {
	if c.sandbox {
		return Payment{
			PaymentID: paymentID,
			Status:    "completed",
			UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		}, nil
	}
	var payment Payment
	err := c.get(ctx, "/pis/v1/payments/"+paymentID, nil, &payment)
	return payment, err
}

// Rates returns FX rates against the base currency.
func (c *Client) Rates(ctx context.Context, baseCurrency string) (RateSheet, error) {
	if baseCurrency == "" {
		baseCurrency = "JOD"
	}
	if c.sandbox {
		return sandboxRates(baseCurrency), nil
	}
	var sheet RateSheet
	err := c.get(ctx, "/fx/v1/rates", url.Values{"base_currency": {baseCurrency}}, &sheet)
	return sheet, err
}

// Convert quotes a currency conversion (FX).
func (c *Client) Convert(ctx context.Context, fromCurrency, toCurrency string, amount float64) (Conversion, error) {
	if c.sandbox {
		return sandboxConversion(fromCurrency, toCurrency, amount), nil
	}
	var conversion Conversion
	err := c.post(ctx, "/fx/v1/convert", map[string]any{
		"from_currency": fromCurrency,
		"to_currency":   toCurrency,
		"amount":        amount,
	}, &conversion)
	return conversion, err
}

// ListProducts returns financial products available to the user (FPS).
func (c *Client) ListProducts(ctx context.Context, userID string) ([]Product, error) {
	if c.sandbox {
		return sandboxProducts(), nil
	}
	var payload struct {
		Products []Product `json:"products"`
	}
	err := c.get(ctx, "/fps/v1/products", url.Values{"user_id": {userID}}, &payload)
	return payload.Products, err
}

// ApplyForProduct submits a product application (FPS).
func (c *Client) ApplyForProduct(ctx context.Context, productID, userID string, data map[string]any) (Application, error) {
	if c.sandbox {
		return sandboxApplication(productID, userID), nil
	}
	body := map[string]any{"product_id": productID, "user_id": userID}
	for k, v := range data {
		body[k] = v
	}
	var application Application
	err := c.post(ctx, "/fps/v1/applications", body, &application)
	return application, err
}

// RequestConsent asks the user to grant data-access permissions.
func (c *Client) RequestConsent(ctx context.Context, userID string, permissions []string) (Consent, error) {
	if c.sandbox {
		return sandboxConsent(userID, permissions), nil
	}
	var consent Consent
	err := c.post(ctx, "/consent/v1/requests", map[string]any{
		"user_id":     userID,
		"permissions": permissions,
	}, &consent)
	return consent, err
}

// ConsentStatus returns the state of a consent grant.
func (c *Client) ConsentStatus(ctx context.Context, consentID string) (Consent, error) {
	if c.sandbox {
		return Consent{
			ConsentID:   consentID,
			Status:      "granted",
			Permissions: []string{"ais", "pis", "fps", "fx"},
			ExpiresAt:   time.Now().UTC().Add(90 * 24 * time.Hour).Format(time.RFC3339),
		}, nil
	}
	var consent Consent
	err := c.get(ctx, "/consent/v1/status/"+consentID, nil, &consent)
	return consent, err
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	token, err := c.AccessToken(req.Context())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	apiKey := c.apiKey
	if apiKey == "" {
		apiKey = "sandbox_api_key"
	}
	req.Header.Set("X-API-Key", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call open finance: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		detail = resp.Status
	}
	return &APIError{Status: resp.StatusCode, Detail: detail}
}
