package wallet

import (
	"context"
	"errors"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.Mutex
	wallets map[string]Wallet // keyed by user id
}

// NewMemoryRepository constructs an in-memory repository for tests. All
// mutations run under one mutex, mirroring the atomicity of the Postgres
// implementation.
func NewMemoryRepository() Repository {
	return &memoryRepository{wallets: make(map[string]Wallet)}
}

func (r *memoryRepository) Create(_ context.Context, wallet Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.wallets[wallet.UserID]; exists {
		return errors.New("wallet exists")
	}
	r.wallets[wallet.UserID] = wallet
	return nil
}

func (r *memoryRepository) GetByUser(_ context.Context, userID string) (Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (r *memoryRepository) Adjust(_ context.Context, userID, currency string, delta int64) (Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	if err := applyDelta(&w, currency, delta); err != nil {
		return Wallet{}, err
	}
	w.UpdatedAt = time.Now().UTC()
	r.wallets[userID] = w
	return w, nil
}

func (r *memoryRepository) Exchange(_ context.Context, userID, fromCurrency string, debit, credit int64) (Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	toCurrency := CurrencyStablecoin
	if fromCurrency == CurrencyStablecoin {
		toCurrency = CurrencyJD
	}
	if err := applyDelta(&w, fromCurrency, -debit); err != nil {
		return Wallet{}, err
	}
	if err := applyDelta(&w, toCurrency, credit); err != nil {
		return Wallet{}, err
	}
	w.UpdatedAt = time.Now().UTC()
	r.wallets[userID] = w
	return w, nil
}

func (r *memoryRepository) Transfer(_ context.Context, fromUserID, toUserID, currency string, amount int64) (Wallet, Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	from, ok := r.wallets[fromUserID]
	if !ok {
		return Wallet{}, Wallet{}, ErrNotFound
	}
	to, ok := r.wallets[toUserID]
	if !ok {
		return Wallet{}, Wallet{}, ErrNotFound
	}
	if err := applyDelta(&from, currency, -amount); err != nil {
		return Wallet{}, Wallet{}, err
	}
	if err := applyDelta(&to, currency, amount); err != nil {
		return Wallet{}, Wallet{}, err
	}
	now := time.Now().UTC()
	from.UpdatedAt = now
	to.UpdatedAt = now
	r.wallets[fromUserID] = from
	r.wallets[toUserID] = to
	return from, to, nil
}

func applyDelta(w *Wallet, currency string, delta int64) error {
	switch currency {
	case CurrencyJD:
		if w.JDBalanceFils+delta < 0 {
			return ErrInsufficientFunds
		}
		w.JDBalanceFils += delta
	case CurrencyStablecoin:
		if w.StablecoinBalanceFils+delta < 0 {
			return ErrInsufficientFunds
		}
		w.StablecoinBalanceFils += delta
	default:
		return errors.New("unknown currency " + currency)
	}
	return nil
}
