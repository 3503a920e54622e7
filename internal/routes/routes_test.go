package routes

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dinarpay/dinarpay/internal/config"
	"github.com/dinarpay/dinarpay/internal/logging"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	cfg := config.Config{
		AppName:          "DinarPay",
		AppEnv:           "development",
		JWTSecret:        "test-secret",
		AccessTokenTTL:   time.Hour,
		AMLThresholdFils: 10_000_000,
		OpenFinance:      config.OpenFinance{Sandbox: true},
	}
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup routes: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		decoded = nil
	}
	return resp.StatusCode, decoded
}

func registerUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"email":     email,
		"password":  "password123",
		"full_name": "Test User",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register status = %d (%v)", status, body)
	}
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatalf("missing access token: %v", body)
	}
	return token
}

func TestRegisterLoginAndMe(t *testing.T) {
	app := newTestApp(t)
	registerUser(t, app, "flow@example.com")

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    "flow@example.com",
		"password": "password123",
	})
	if status != fiber.StatusOK {
		t.Fatalf("login status = %d (%v)", status, body)
	}
	token, _ := body["access_token"].(string)

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/auth/me", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("me status = %d (%v)", status, body)
	}

	status, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/auth/me", "", nil)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("me without token status = %d", status)
	}
}

func TestWalletDepositExchangeAndHistory(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "wallet@example.com")

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/wallet/deposit", token, fiber.Map{
		"currency":    "JD",
		"amount_fils": 5000,
	})
	if status != fiber.StatusOK {
		t.Fatalf("deposit status = %d (%v)", status, body)
	}

	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/wallet/exchange", token, fiber.Map{
		"from_currency": "JD",
		"to_currency":   "STABLECOIN",
		"amount_fils":   2000,
	})
	if status != fiber.StatusOK {
		t.Fatalf("exchange status = %d (%v)", status, body)
	}

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/transactions", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("transactions status = %d (%v)", status, body)
	}
	if total, _ := body["total"].(float64); total != 2 {
		t.Fatalf("expected 2 transactions, got %v", body["total"])
	}
}

func TestUserToUserTransferFlow(t *testing.T) {
	app := newTestApp(t)
	sender := registerUser(t, app, "alice@example.com")
	registerUser(t, app, "bob@example.com")

	if status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/wallet/deposit", sender, fiber.Map{
		"currency":    "JD",
		"amount_fils": 10_000,
	}); status != fiber.StatusOK {
		t.Fatalf("deposit status = %d (%v)", status, body)
	}

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/transfers/user-to-user", sender, fiber.Map{
		"recipient_email": "bob@example.com",
		"currency":        "JD",
		"amount_fils":     4_000,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("transfer status = %d (%v)", status, body)
	}
	if fromBalance, _ := body["from_balance"].(float64); fromBalance != 6_000 {
		t.Fatalf("from_balance = %v", body["from_balance"])
	}

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/users/search?q=bob", sender, nil)
	if status != fiber.StatusOK {
		t.Fatalf("search status = %d (%v)", status, body)
	}
	if total, _ := body["total"].(float64); total != 1 {
		t.Fatalf("expected 1 search result, got %v", body["total"])
	}
}

func TestOpenBankingSandboxFlow(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "ob@example.com")

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/open-banking/connect-accounts", token, fiber.Map{})
	if status != fiber.StatusOK {
		t.Fatalf("connect status = %d (%v)", status, body)
	}
	if total, _ := body["total"].(float64); total != 3 {
		t.Fatalf("expected 3 connected accounts, got %v", body["total"])
	}

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/open-banking/dashboard", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("dashboard status = %d (%v)", status, body)
	}
	if _, ok := body["exchange_rates"]; !ok {
		t.Fatalf("dashboard missing exchange_rates: %v", body)
	}

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/open-banking/accounts/acc_001_jordan_bank/transactions?limit=5", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("statement status = %d (%v)", status, body)
	}
	if total, _ := body["total"].(float64); total != 5 {
		t.Fatalf("expected 5 statement lines, got %v", body["total"])
	}

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/user/fx-quote?from_currency=JOD&to_currency=USD&amount=100", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("fx-quote status = %d (%v)", status, body)
	}
	if rate, _ := body["exchange_rate"].(float64); rate != 1.41 {
		t.Fatalf("exchange_rate = %v", body["exchange_rate"])
	}
}

func TestAMLAlertsSurfaceLargeDeposits(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "whale@example.com")

	if status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/wallet/deposit", token, fiber.Map{
		"currency":    "JD",
		"amount_fils": 15_000_000,
	}); status != fiber.StatusOK {
		t.Fatalf("deposit status = %d (%v)", status, body)
	}

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/aml/alerts", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("alerts status = %d (%v)", status, body)
	}
	if total, _ := body["total"].(float64); total != 1 {
		t.Fatalf("expected 1 alert, got %v", body["total"])
	}

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/aml/dashboard", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("aml dashboard status = %d (%v)", status, body)
	}
	if open, _ := body["open"].(float64); open != 1 {
		t.Fatalf("open alerts = %v", body["open"])
	}
}

func TestSecurityEndpoints(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "secure@example.com")

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/security/status", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("status endpoint = %d (%v)", status, body)
	}
	if enabled, ok := body["biometric_enabled"].(bool); !ok || enabled {
		t.Fatalf("biometric_enabled = %v", body["biometric_enabled"])
	}

	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/security/initialize", token, fiber.Map{"skip_biometric": true})
	if status != fiber.StatusOK {
		t.Fatalf("initialize = %d (%v)", status, body)
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	app := newTestApp(t)
	registerUser(t, app, "dup@example.com")

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"email":     "dup@example.com",
		"password":  "password123",
		"full_name": "Dup",
	})
	if status != fiber.StatusConflict && status != fiber.StatusBadRequest {
		t.Fatalf("duplicate register status = %d (%v)", status, body)
	}
}
