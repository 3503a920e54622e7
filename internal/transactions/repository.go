package transactions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the transaction does not exist.
var ErrNotFound = errors.New("transaction not found")

// ListOptions bounds a transaction listing.
type ListOptions struct {
	Limit  int
	Offset int
	Type   string // optional filter
}

// Repository persists transaction records.
type Repository interface {
	Append(ctx context.Context, tx Transaction) error
	ListByUser(ctx context.Context, userID string, opts ListOptions) ([]Transaction, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// PostgresRepository stores transactions in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts a transaction record.
func (r *PostgresRepository) Append(ctx context.Context, tx Transaction) error {
	txID, err := uuid.Parse(tx.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(tx.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO transactions
        (id, user_id, type, amount_fils, currency, to_currency, rate, status, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		txID, userID, tx.Type, tx.AmountFils, tx.Currency, tx.ToCurrency, tx.Rate, tx.Status,
		tx.Description, tx.CreatedAt.UTC(), tx.UpdatedAt.UTC())
	return err
}

// ListByUser returns the user's transactions newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, opts ListOptions) ([]Transaction, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	opts = opts.normalize()

	const base = `SELECT id, user_id, type, amount_fils, currency, to_currency, rate, status, description, created_at, updated_at
        FROM transactions WHERE user_id = $1`
	var (
		rows pgx.Rows
	)
	if opts.Type != "" {
		rows, err = r.db.Query(ctx, base+` AND type = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
			uid, opts.Type, opts.Limit, opts.Offset)
	} else {
		rows, err = r.db.Query(ctx, base+` ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			uid, opts.Limit, opts.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var (
			id        uuid.UUID
			uidVal    uuid.UUID
			createdAt time.Time
			updatedAt time.Time
			tx        Transaction
		)
		if err := rows.Scan(&id, &uidVal, &tx.Type, &tx.AmountFils, &tx.Currency, &tx.ToCurrency,
			&tx.Rate, &tx.Status, &tx.Description, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		tx.ID = id.String()
		tx.UserID = uidVal.String()
		tx.CreatedAt = createdAt.UTC()
		tx.UpdatedAt = updatedAt.UTC()
		out = append(out, tx)
	}
	return out, rows.Err()
}

// UpdateStatus moves a transaction to a new status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) error {
	txID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE transactions SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), txID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (o ListOptions) normalize() ListOptions {
	if o.Limit <= 0 || o.Limit > 100 {
		o.Limit = 10
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
