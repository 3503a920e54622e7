package aml

import "time"

// Alert kinds.
const (
	KindLargeDeposit  = "large_deposit"
	KindLargeTransfer = "large_transfer"
)

// Alert statuses.
const (
	StatusOpen     = "open"
	StatusReviewed = "reviewed"
)

// Alert records a movement that tripped a monitoring rule.
type Alert struct {
	ID         string
	UserID     string
	Kind       string
	AmountFils int64
	Currency   string
	Note       string
	Status     string
	CreatedAt  time.Time
}

// Movement describes a wallet mutation submitted for screening.
type Movement struct {
	UserID     string
	Kind       string // transaction type: deposit, transfer, ...
	Currency   string
	AmountFils int64
}
