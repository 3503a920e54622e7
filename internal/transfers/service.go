package transfers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dinarpay/dinarpay/internal/aml"
	"github.com/dinarpay/dinarpay/internal/identity"
	"github.com/dinarpay/dinarpay/internal/notification"
	"github.com/dinarpay/dinarpay/internal/transactions"
	"github.com/dinarpay/dinarpay/internal/wallet"
)

var (
	// ErrSelfTransfer rejects a transfer where sender and recipient match.
	ErrSelfTransfer = errors.New("cannot transfer to yourself")
	// ErrRecipientNotFound indicates no user matches the recipient email.
	ErrRecipientNotFound = errors.New("recipient not found")
)

// Service moves funds between users' wallets and records both legs.
type Service struct {
	wallets  *wallet.Service
	ids      *identity.Service
	txlog    transactions.Repository
	screener aml.Screener
	notifier notification.Notifier
}

// NewService constructs a transfer service.
func NewService(wallets *wallet.Service, ids *identity.Service, txlog transactions.Repository, screener aml.Screener, notifier notification.Notifier) *Service {
	return &Service{wallets: wallets, ids: ids, txlog: txlog, screener: screener, notifier: notifier}
}

// Input captures a user-to-user transfer request.
type Input struct {
	FromUserID     string
	RecipientEmail string
	Currency       string
	AmountFils     int64
	Description    string
}

// Result reports the outcome of a transfer.
type Result struct {
	TransactionID string
	FromBalance   int64
	ToBalance     int64
	Recipient     identity.User
	CompletedAt   time.Time
}

// Send debits the sender and credits the recipient atomically, then records
// a transfer transaction for each side.
func (s *Service) Send(ctx context.Context, input Input) (Result, error) {
	if input.AmountFils <= 0 {
		return Result{}, wallet.ErrInvalidAmount
	}
	if !wallet.ValidCurrency(input.Currency) {
		return Result{}, wallet.ErrUnknownCurrency
	}

	recipient, err := s.ids.GetByEmail(ctx, input.RecipientEmail)
	if err != nil {
		return Result{}, ErrRecipientNotFound
	}
	if recipient.ID == input.FromUserID {
		return Result{}, ErrSelfTransfer
	}
	if !recipient.Active {
		return Result{}, ErrRecipientNotFound
	}

	// The recipient may never have touched their wallet.
	if _, err := s.wallets.GetOrCreate(ctx, recipient.ID); err != nil {
		return Result{}, err
	}

	from, to, err := s.wallets.Move(ctx, input.FromUserID, recipient.ID, input.Currency, input.AmountFils)
	if err != nil {
		return Result{}, err
	}

	now := time.Now().UTC()
	txID := uuid.New().String()
	description := input.Description
	if description == "" {
		description = fmt.Sprintf("Transfer to %s", recipient.Email)
	}

	s.append(ctx, transactions.Transaction{
		ID:          txID,
		UserID:      input.FromUserID,
		Type:        transactions.TypeTransfer,
		AmountFils:  input.AmountFils,
		Currency:    input.Currency,
		Status:      transactions.StatusCompleted,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	s.append(ctx, transactions.Transaction{
		ID:          uuid.New().String(),
		UserID:      recipient.ID,
		Type:        transactions.TypeTransfer,
		AmountFils:  input.AmountFils,
		Currency:    input.Currency,
		Status:      transactions.StatusCompleted,
		Description: fmt.Sprintf("Transfer received (%s)", txID),
		CreatedAt:   now,
		UpdatedAt:   now,
	})

	if s.screener != nil {
		_ = s.screener.Inspect(ctx, aml.Movement{
			UserID:     input.FromUserID,
			Kind:       transactions.TypeTransfer,
			Currency:   input.Currency,
			AmountFils: input.AmountFils,
		})
	}
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferReceived,
			Destination: recipient.ID,
			Body:        fmt.Sprintf("You received %d fils %s", input.AmountFils, input.Currency),
		})
	}

	return Result{
		TransactionID: txID,
		FromBalance:   from.BalanceFor(input.Currency),
		ToBalance:     to.BalanceFor(input.Currency),
		Recipient:     recipient,
		CompletedAt:   now,
	}, nil
}

// History lists the caller's transfer transactions, newest first.
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]transactions.Transaction, error) {
	return s.txlog.ListByUser(ctx, userID, transactions.ListOptions{
		Limit:  limit,
		Offset: offset,
		Type:   transactions.TypeTransfer,
	})
}

func (s *Service) append(ctx context.Context, tx transactions.Transaction) {
	if s.txlog == nil {
		return
	}
	_ = s.txlog.Append(ctx, tx)
}
