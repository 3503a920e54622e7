package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates no wallet exists for the user.
	ErrNotFound = errors.New("wallet not found")
	// ErrInsufficientFunds occurs when a debit exceeds the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Repository persists wallets. Balance mutations are atomic: the balance
// check and the update happen in a single statement (or transaction), so
// concurrent operations on the same wallet cannot overdraw it.
type Repository interface {
	Create(ctx context.Context, wallet Wallet) error
	GetByUser(ctx context.Context, userID string) (Wallet, error)
	// Adjust adds delta (possibly negative) to one currency balance.
	Adjust(ctx context.Context, userID, currency string, delta int64) (Wallet, error)
	// Exchange debits one currency and credits the other in one step.
	Exchange(ctx context.Context, userID, fromCurrency string, debit, credit int64) (Wallet, error)
	// Transfer debits one user's balance and credits another's atomically.
	Transfer(ctx context.Context, fromUserID, toUserID, currency string, amount int64) (from Wallet, to Wallet, err error)
}

// PostgresRepository stores wallets in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a wallet record.
func (r *PostgresRepository) Create(ctx context.Context, wallet Wallet) error {
	walletID, err := uuid.Parse(wallet.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(wallet.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO wallets (id, user_id, jd_balance_fils, stablecoin_balance_fils, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		walletID, userID, wallet.JDBalanceFils, wallet.StablecoinBalanceFils,
		wallet.CreatedAt.UTC(), wallet.UpdatedAt.UTC())
	return err
}

// GetByUser fetches the user's wallet.
func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (Wallet, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, user_id, jd_balance_fils, stablecoin_balance_fils, created_at, updated_at
        FROM wallets WHERE user_id = $1`, uid)
	return scanWallet(row)
}

// Adjust applies a delta to one balance. The WHERE clause keeps the balance
// non-negative, so a concurrent debit cannot overdraw the wallet.
func (r *PostgresRepository) Adjust(ctx context.Context, userID, currency string, delta int64) (Wallet, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	column, err := balanceColumn(currency)
	if err != nil {
		return Wallet{}, err
	}

	query := fmt.Sprintf(`UPDATE wallets
        SET %[1]s = %[1]s + $1, updated_at = $2
        WHERE user_id = $3 AND %[1]s + $1 >= 0
        RETURNING id, user_id, jd_balance_fils, stablecoin_balance_fils, created_at, updated_at`, column)

	row := r.db.QueryRow(ctx, query, delta, time.Now().UTC(), uid)
	w, err := scanWallet(row)
	if errors.Is(err, ErrNotFound) {
		// Distinguish a missing wallet from an overdraw.
		if _, getErr := r.GetByUser(ctx, userID); getErr == nil {
			return Wallet{}, ErrInsufficientFunds
		}
		return Wallet{}, ErrNotFound
	}
	return w, err
}

// Exchange debits fromCurrency and credits the opposite balance in a single
// conditional update.
func (r *PostgresRepository) Exchange(ctx context.Context, userID, fromCurrency string, debit, credit int64) (Wallet, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	fromCol, err := balanceColumn(fromCurrency)
	if err != nil {
		return Wallet{}, err
	}
	toCol := "stablecoin_balance_fils"
	if fromCol == toCol {
		toCol = "jd_balance_fils"
	}

	query := fmt.Sprintf(`UPDATE wallets
        SET %[1]s = %[1]s - $1, %[2]s = %[2]s + $2, updated_at = $3
        WHERE user_id = $4 AND %[1]s >= $1
        RETURNING id, user_id, jd_balance_fils, stablecoin_balance_fils, created_at, updated_at`, fromCol, toCol)

	row := r.db.QueryRow(ctx, query, debit, credit, time.Now().UTC(), uid)
	w, err := scanWallet(row)
	if errors.Is(err, ErrNotFound) {
		if _, getErr := r.GetByUser(ctx, userID); getErr == nil {
			return Wallet{}, ErrInsufficientFunds
		}
		return Wallet{}, ErrNotFound
	}
	return w, err
}

// Transfer moves funds between two users inside one database transaction.
// Wallet rows are locked in user-id order to avoid deadlocks between
// opposing transfers.
func (r *PostgresRepository) Transfer(ctx context.Context, fromUserID, toUserID, currency string, amount int64) (Wallet, Wallet, error) {
	fromUID, err := uuid.Parse(fromUserID)
	if err != nil {
		return Wallet{}, Wallet{}, ErrNotFound
	}
	toUID, err := uuid.Parse(toUserID)
	if err != nil {
		return Wallet{}, Wallet{}, ErrNotFound
	}
	column, err := balanceColumn(currency)
	if err != nil {
		return Wallet{}, Wallet{}, err
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Wallet{}, Wallet{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	lockOrder := []uuid.UUID{fromUID, toUID}
	if toUID.String() < fromUID.String() {
		lockOrder = []uuid.UUID{toUID, fromUID}
	}
	for _, uid := range lockOrder {
		if _, err := tx.Exec(ctx, `SELECT 1 FROM wallets WHERE user_id = $1 FOR UPDATE`, uid); err != nil {
			return Wallet{}, Wallet{}, err
		}
	}

	now := time.Now().UTC()
	debitQuery := fmt.Sprintf(`UPDATE wallets SET %[1]s = %[1]s - $1, updated_at = $2
        WHERE user_id = $3 AND %[1]s >= $1
        RETURNING id, user_id, jd_balance_fils, stablecoin_balance_fils, created_at, updated_at`, column)
	from, err := scanWallet(tx.QueryRow(ctx, debitQuery, amount, now, fromUID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			if exists, existsErr := walletExists(ctx, tx, fromUID); existsErr == nil && exists {
				return Wallet{}, Wallet{}, ErrInsufficientFunds
			}
		}
		return Wallet{}, Wallet{}, err
	}

	creditQuery := fmt.Sprintf(`UPDATE wallets SET %[1]s = %[1]s + $1, updated_at = $2
        WHERE user_id = $3
        RETURNING id, user_id, jd_balance_fils, stablecoin_balance_fils, created_at, updated_at`, column)
	to, err := scanWallet(tx.QueryRow(ctx, creditQuery, amount, now, toUID))
	if err != nil {
		return Wallet{}, Wallet{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Wallet{}, Wallet{}, err
	}
	return from, to, nil
}

func walletExists(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (bool, error) {
	var one int
	err := tx.QueryRow(ctx, `SELECT 1 FROM wallets WHERE user_id = $1`, userID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func balanceColumn(currency string) (string, error) {
	switch currency {
	case CurrencyJD:
		return "jd_balance_fils", nil
	case CurrencyStablecoin:
		return "stablecoin_balance_fils", nil
	default:
		return "", fmt.Errorf("unknown currency %q", currency)
	}
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var (
		id        uuid.UUID
		userID    uuid.UUID
		createdAt time.Time
		updatedAt time.Time
		w         Wallet
	)
	if err := row.Scan(&id, &userID, &w.JDBalanceFils, &w.StablecoinBalanceFils, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	w.ID = id.String()
	w.UserID = userID.String()
	w.CreatedAt = createdAt.UTC()
	w.UpdatedAt = updatedAt.UTC()
	return w, nil
}
