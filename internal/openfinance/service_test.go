package openfinance

import (
	"context"
	"testing"

	"github.com/dinarpay/dinarpay/internal/config"
)

func sandboxService() *Service {
	return NewService(NewClient(config.OpenFinance{Sandbox: true}), NewMemoryRepository())
}

func TestConnectAccountsCachesLinkedAccounts(t *testing.T) {
	svc := sandboxService()
	ctx := context.Background()

	res, err := svc.ConnectAccounts(ctx, "user_1")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if res.Consent.Status != "granted" {
		t.Fatalf("consent status = %s", res.Consent.Status)
	}
	if len(res.Accounts) != 3 {
		t.Fatalf("expected 3 linked accounts, got %d", len(res.Accounts))
	}

	cached, err := svc.repo.ListAccounts(ctx, "user_1")
	if err != nil {
		t.Fatalf("cache read: %v", err)
	}
	if len(cached) != 3 {
		t.Fatalf("expected 3 cached accounts, got %d", len(cached))
	}
	if cached[0].ConsentID != res.Consent.ConsentID {
		t.Fatalf("cached consent = %s, want %s", cached[0].ConsentID, res.Consent.ConsentID)
	}
}

func TestAccountsWithoutConsentIsEmpty(t *testing.T) {
	svc := sandboxService()

	accounts, err := svc.Accounts(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}
	if len(accounts) != 0 {
		t.Fatalf("expected no accounts, got %d", len(accounts))
	}
}

func TestDashboardTotalsLinkedBalances(t *testing.T) {
	svc := sandboxService()
	ctx := context.Background()

	if _, err := svc.ConnectAccounts(ctx, "user_1"); err != nil {
		t.Fatalf("connect: %v", err)
	}

	dash, err := svc.DashboardFor(ctx, "user_1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	want := 2500.75 + 15000.00 + 8750.50
	if dash.TotalBalance != want {
		t.Fatalf("total balance = %v, want %v", dash.TotalBalance, want)
	}
	if dash.Rates.Rates["EUR"] != 1.29 {
		t.Fatalf("rates missing EUR: %+v", dash.Rates)
	}
}

func TestAccountTransactionsUsesStoredConsent(t *testing.T) {
	svc := sandboxService()
	ctx := context.Background()

	if _, err := svc.ConnectAccounts(ctx, "user_1"); err != nil {
		t.Fatalf("connect: %v", err)
	}

	txs, err := svc.AccountTransactions(ctx, "user_1", "acc_003_housing_bank", 10)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 10 {
		t.Fatalf("expected 10 transactions, got %d", len(txs))
	}
	for _, tx := range txs {
		if tx.AccountID != "acc_003_housing_bank" {
			t.Fatalf("transaction for wrong account: %+v", tx)
		}
	}
}
