package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/dinarpay/dinarpay/internal/transactions"
)

func newTestService() (*Service, transactions.Repository) {
	txlog := transactions.NewMemoryRepository()
	return NewService(NewMemoryRepository(), txlog, nil), txlog
}

func TestGetOrCreateProvisionsOnce(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	userID := uuid.NewString()

	first, err := svc.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if first.JDBalanceFils != 0 || first.StablecoinBalanceFils != 0 {
		t.Fatalf("expected empty wallet, got %+v", first)
	}

	second, err := svc.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same wallet, got %s and %s", first.ID, second.ID)
	}
}

func TestDepositCreditsBalanceAndLogs(t *testing.T) {
	svc, txlog := newTestService()
	ctx := context.Background()
	userID := uuid.NewString()

	res, err := svc.Deposit(ctx, DepositInput{UserID: userID, Currency: CurrencyJD, AmountFils: 5_000})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if res.Wallet.JDBalanceFils != 5_000 {
		t.Fatalf("expected 5000 fils, got %d", res.Wallet.JDBalanceFils)
	}

	txs, err := txlog.ListByUser(ctx, userID, transactions.ListOptions{})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != transactions.TypeDeposit || txs[0].Status != transactions.StatusCompleted {
		t.Fatalf("unexpected transaction log: %+v", txs)
	}
}

func TestDepositRejectsBadInput(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Deposit(ctx, DepositInput{UserID: uuid.NewString(), Currency: CurrencyJD, AmountFils: 0}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.Deposit(ctx, DepositInput{UserID: uuid.NewString(), Currency: "BTC", AmountFils: 100}); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestExchangeMovesBalancesAtomically(t *testing.T) {
	svc, txlog := newTestService()
	ctx := context.Background()
	userID := uuid.NewString()

	if _, err := svc.Deposit(ctx, DepositInput{UserID: userID, Currency: CurrencyJD, AmountFils: 10_000}); err != nil {
		t.Fatalf("seed deposit: %v", err)
	}

	res, err := svc.Exchange(ctx, ExchangeInput{
		UserID:       userID,
		FromCurrency: CurrencyJD,
		ToCurrency:   CurrencyStablecoin,
		AmountFils:   4_000,
	})
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if res.Wallet.JDBalanceFils != 6_000 || res.Wallet.StablecoinBalanceFils != 4_000 {
		t.Fatalf("unexpected balances after exchange: %+v", res.Wallet)
	}
	if res.Rate != 1.0 {
		t.Fatalf("expected 1:1 rate, got %f", res.Rate)
	}

	txs, _ := txlog.ListByUser(ctx, userID, transactions.ListOptions{Type: transactions.TypeExchange})
	if len(txs) != 1 || txs[0].ToCurrency != CurrencyStablecoin {
		t.Fatalf("unexpected exchange record: %+v", txs)
	}
}

func TestExchangeRejectsSameCurrencyAndOverdraw(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	userID := uuid.NewString()

	if _, err := svc.Deposit(ctx, DepositInput{UserID: userID, Currency: CurrencyJD, AmountFils: 100}); err != nil {
		t.Fatalf("seed deposit: %v", err)
	}

	_, err := svc.Exchange(ctx, ExchangeInput{UserID: userID, FromCurrency: CurrencyJD, ToCurrency: CurrencyJD, AmountFils: 50})
	if !errors.Is(err, ErrSameCurrency) {
		t.Fatalf("expected ErrSameCurrency, got %v", err)
	}

	_, err = svc.Exchange(ctx, ExchangeInput{UserID: userID, FromCurrency: CurrencyStablecoin, ToCurrency: CurrencyJD, AmountFils: 50})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Failed exchange must not leave a partial mutation behind.
	w, err := svc.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if w.JDBalanceFils != 100 || w.StablecoinBalanceFils != 0 {
		t.Fatalf("balances mutated by failed exchange: %+v", w)
	}
}

func TestConcurrentExchangesCannotOverdraw(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	userID := uuid.NewString()

	if _, err := svc.Deposit(ctx, DepositInput{UserID: userID, Currency: CurrencyJD, AmountFils: 1_000}); err != nil {
		t.Fatalf("seed deposit: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Exchange(ctx, ExchangeInput{
				UserID:       userID,
				FromCurrency: CurrencyJD,
				ToCurrency:   CurrencyStablecoin,
				AmountFils:   300,
			})
		}()
	}
	wg.Wait()

	w, err := svc.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if w.JDBalanceFils < 0 {
		t.Fatalf("wallet overdrawn: %d", w.JDBalanceFils)
	}
	if w.JDBalanceFils+w.StablecoinBalanceFils != 1_000 {
		t.Fatalf("funds not conserved: jd=%d stablecoin=%d", w.JDBalanceFils, w.StablecoinBalanceFils)
	}
}

func TestMoveBetweenUsers(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	alice := uuid.NewString()
	bob := uuid.NewString()

	if _, err := svc.Deposit(ctx, DepositInput{UserID: alice, Currency: CurrencyJD, AmountFils: 2_000}); err != nil {
		t.Fatalf("seed alice: %v", err)
	}
	if _, err := svc.GetOrCreate(ctx, bob); err != nil {
		t.Fatalf("provision bob: %v", err)
	}

	from, to, err := svc.Move(ctx, alice, bob, CurrencyJD, 1_500)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if from.JDBalanceFils != 500 || to.JDBalanceFils != 1_500 {
		t.Fatalf("unexpected balances: from=%d to=%d", from.JDBalanceFils, to.JDBalanceFils)
	}

	if _, _, err := svc.Move(ctx, alice, bob, CurrencyJD, 1_000); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}
