package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dinarpay/dinarpay/internal/aml"
	"github.com/dinarpay/dinarpay/internal/transactions"
)

var (
	// ErrSameCurrency rejects an exchange where both sides name one currency.
	ErrSameCurrency = errors.New("cannot exchange same currency")
	// ErrInvalidAmount rejects non-positive amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrUnknownCurrency rejects currency tags outside JD/STABLECOIN.
	ErrUnknownCurrency = errors.New("unknown currency")
)

// JD and the stablecoin are pegged 1:1 for the MVP.
const exchangeRate = 1.0

// Service exposes wallet operations. Balance checks and updates are atomic
// at the repository, so concurrent exchanges on one wallet cannot overdraw.
type Service struct {
	repo     Repository
	txlog    transactions.Repository
	screener aml.Screener
}

// NewService builds a wallet service instance.
func NewService(repo Repository, txlog transactions.Repository, screener aml.Screener) *Service {
	return &Service{repo: repo, txlog: txlog, screener: screener}
}

// GetOrCreate returns the user's wallet, provisioning an empty one on first
// access.
func (s *Service) GetOrCreate(ctx context.Context, userID string) (Wallet, error) {
	w, err := s.repo.GetByUser(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Wallet{}, err
	}

	now := time.Now().UTC()
	w = Wallet{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, w); err != nil {
		// Lost a provisioning race; the other writer's wallet wins.
		if existing, getErr := s.repo.GetByUser(ctx, userID); getErr == nil {
			return existing, nil
		}
		return Wallet{}, err
	}
	return w, nil
}

// DepositInput captures a deposit request.
type DepositInput struct {
	UserID      string
	Currency    string
	AmountFils  int64
	Description string
}

// DepositResult reports the outcome of a deposit.
type DepositResult struct {
	Wallet        Wallet
	TransactionID string
}

// Deposit credits one currency balance and records a completed transaction.
func (s *Service) Deposit(ctx context.Context, input DepositInput) (DepositResult, error) {
	if input.AmountFils <= 0 {
		return DepositResult{}, ErrInvalidAmount
	}
	if !ValidCurrency(input.Currency) {
		return DepositResult{}, ErrUnknownCurrency
	}

	if _, err := s.GetOrCreate(ctx, input.UserID); err != nil {
		return DepositResult{}, err
	}

	w, err := s.repo.Adjust(ctx, input.UserID, input.Currency, input.AmountFils)
	if err != nil {
		return DepositResult{}, err
	}

	description := input.Description
	if description == "" {
		description = fmt.Sprintf("Deposit %d fils %s", input.AmountFils, input.Currency)
	}
	txID := s.record(ctx, transactions.Transaction{
		ID:          uuid.New().String(),
		UserID:      input.UserID,
		Type:        transactions.TypeDeposit,
		AmountFils:  input.AmountFils,
		Currency:    input.Currency,
		Status:      transactions.StatusCompleted,
		Description: description,
	})

	s.screen(ctx, input.UserID, transactions.TypeDeposit, input.Currency, input.AmountFils)

	return DepositResult{Wallet: w, TransactionID: txID}, nil
}

// ExchangeInput captures an exchange between the two wallet currencies.
type ExchangeInput struct {
	UserID       string
	FromCurrency string
	ToCurrency   string
	AmountFils   int64
}

// ExchangeResult reports the outcome of an exchange.
type ExchangeResult struct {
	Wallet        Wallet
	TransactionID string
	Rate          float64
}

// Exchange converts between JD and the stablecoin at the fixed rate. The
// debit and credit apply in one atomic repository operation.
func (s *Service) Exchange(ctx context.Context, input ExchangeInput) (ExchangeResult, error) {
	if input.AmountFils <= 0 {
		return ExchangeResult{}, ErrInvalidAmount
	}
	if !ValidCurrency(input.FromCurrency) || !ValidCurrency(input.ToCurrency) {
		return ExchangeResult{}, ErrUnknownCurrency
	}
	if input.FromCurrency == input.ToCurrency {
		return ExchangeResult{}, ErrSameCurrency
	}

	credit := int64(float64(input.AmountFils) * exchangeRate)
	w, err := s.repo.Exchange(ctx, input.UserID, input.FromCurrency, input.AmountFils, credit)
	if err != nil {
		return ExchangeResult{}, err
	}

	txID := s.record(ctx, transactions.Transaction{
		ID:          uuid.New().String(),
		UserID:      input.UserID,
		Type:        transactions.TypeExchange,
		AmountFils:  input.AmountFils,
		Currency:    input.FromCurrency,
		ToCurrency:  input.ToCurrency,
		Rate:        exchangeRate,
		Status:      transactions.StatusCompleted,
		Description: fmt.Sprintf("Exchange %d fils %s to %s", input.AmountFils, input.FromCurrency, input.ToCurrency),
	})

	return ExchangeResult{Wallet: w, TransactionID: txID, Rate: exchangeRate}, nil
}

// Move debits one user and credits another atomically. Used by the transfer
// service; transaction records are the caller's concern.
func (s *Service) Move(ctx context.Context, fromUserID, toUserID, currency string, amountFils int64) (Wallet, Wallet, error) {
	if amountFils <= 0 {
		return Wallet{}, Wallet{}, ErrInvalidAmount
	}
	if !ValidCurrency(currency) {
		return Wallet{}, Wallet{}, ErrUnknownCurrency
	}
	return s.repo.Transfer(ctx, fromUserID, toUserID, currency, amountFils)
}

// record appends a transaction best-effort: the balance change has already
// committed, so a failed log write must not fail the operation.
func (s *Service) record(ctx context.Context, tx transactions.Transaction) string {
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	if s.txlog == nil {
		return tx.ID
	}
	if err := s.txlog.Append(ctx, tx); err != nil {
		return tx.ID
	}
	return tx.ID
}

func (s *Service) screen(ctx context.Context, userID, kind, currency string, amountFils int64) {
	if s.screener == nil {
		return
	}
	_ = s.screener.Inspect(ctx, aml.Movement{
		UserID:     userID,
		Kind:       kind,
		Currency:   currency,
		AmountFils: amountFils,
	})
}
