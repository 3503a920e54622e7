package transactions

import "time"

// Transaction types.
const (
	TypeDeposit    = "deposit"
	TypeWithdrawal = "withdrawal"
	TypeTransfer   = "transfer"
	TypeExchange   = "exchange"
)

// Transaction statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Transaction is a write-once record of a wallet movement. Only the status
// field may change after creation.
type Transaction struct {
	ID          string
	UserID      string
	Type        string
	AmountFils  int64
	Currency    string
	ToCurrency  string // set for exchanges
	Rate        float64
	Status      string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
