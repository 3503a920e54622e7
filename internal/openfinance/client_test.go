package openfinance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dinarpay/dinarpay/internal/config"
)

func liveClient(baseURL string) *Client {
	return NewClient(config.OpenFinance{
		BaseURL:      baseURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		APIKey:       "api-key",
		Sandbox:      false,
	})
}

func TestListAccountsLive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2/token":
			if r.Method != http.MethodPost {
				t.Errorf("token request method = %s", r.Method)
			}
			if err := r.ParseForm(); err != nil {
				t.Fatalf("parse form: %v", err)
			}
			if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
				t.Errorf("grant_type = %q", got)
			}
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok_123"})
		case "/ais/v1/accounts":
			if got := r.Header.Get("Authorization"); got != "Bearer tok_123" {
				t.Errorf("authorization = %q", got)
			}
			if got := r.Header.Get("X-API-Key"); got != "api-key" {
				t.Errorf("x-api-key = %q", got)
			}
			if got := r.URL.Query().Get("consent_id"); got != "consent_1" {
				t.Errorf("consent_id = %q", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"accounts": []map[string]any{{"account_id": "acc_x", "bank_name": "Jordan Bank"}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	accounts, err := liveClient(srv.URL).ListAccounts(context.Background(), "consent_1")
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].AccountID != "acc_x" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
}

func TestUpstreamErrorBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth2/token" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("gateway down"))
	}))
	defer srv.Close()

	_, err := liveClient(srv.URL).ListAccounts(context.Background(), "consent_1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", apiErr.Status)
	}
	if !strings.Contains(apiErr.Detail, "gateway down") {
		t.Fatalf("detail = %q", apiErr.Detail)
	}
}

func TestSandboxFixtures(t *testing.T) {
	c := NewClient(config.OpenFinance{Sandbox: true})
	ctx := context.Background()

	accounts, err := c.ListAccounts(ctx, "ignored")
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}
	if len(accounts) != 3 {
		t.Fatalf("expected 3 sandbox accounts, got %d", len(accounts))
	}
	if accounts[0].AccountID != "acc_001_jordan_bank" {
		t.Fatalf("first account = %s", accounts[0].AccountID)
	}

	balance, err := c.AccountBalance(ctx, "acc_002_arab_bank", "ignored")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Balance != 15000.00 {
		t.Fatalf("balance = %v", balance.Balance)
	}

	txs, err := c.AccountTransactions(ctx, "acc_001_jordan_bank", "ignored", 4)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 4 {
		t.Fatalf("expected 4 transactions, got %d", len(txs))
	}
	if txs[0].TransactionID != "tx_acc_001_jordan_bank_1" {
		t.Fatalf("transaction id = %s", txs[0].TransactionID)
	}
	if txs[0].TransactionType != "debit" {
		t.Fatalf("first seeded transaction should be a debit, got %s", txs[0].TransactionType)
	}

	rates, err := c.Rates(ctx, "")
	if err != nil {
		t.Fatalf("rates: %v", err)
	}
	if rates.BaseCurrency != "JOD" || rates.Rates["USD"] != 1.41 {
		t.Fatalf("unexpected rate sheet: %+v", rates)
	}

	conv, err := c.Convert(ctx, "JOD", "STABLECOIN", 250)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if conv.ExchangeRate != 1.0 || conv.ConvertedAmount != 250 {
		t.Fatalf("unexpected conversion: %+v", conv)
	}

	products, err := c.ListProducts(ctx, "user_1")
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 3 || products[0].ProductID != "loan_001" {
		t.Fatalf("unexpected products: %+v", products)
	}

	consent, err := c.RequestConsent(ctx, "user_1", []string{"accounts"})
	if err != nil {
		t.Fatalf("consent: %v", err)
	}
	if consent.Status != "granted" || !strings.HasPrefix(consent.ConsentID, "consent_") {
		t.Fatalf("unexpected consent: %+v", consent)
	}
}
