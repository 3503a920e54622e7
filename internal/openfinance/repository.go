package openfinance

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the cached record does not exist.
var ErrNotFound = errors.New("openfinance: not found")

// LinkedAccount is a locally cached upstream account tied to a user.
type LinkedAccount struct {
	UserID           string
	AccountID        string
	AccountName      string
	BankName         string
	BankCode         string
	AccountType      string
	Currency         string
	Balance          float64
	AvailableBalance float64
	ConsentID        string
	LinkedAt         time.Time
	UpdatedAt        time.Time
}

// ConsentRecord is the locally stored view of a consent grant.
type ConsentRecord struct {
	ConsentID string
	UserID    string
	Status    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Repository caches linked accounts and consents so dashboards do not
// depend on the upstream gateway being reachable.
type Repository interface {
	UpsertAccount(ctx context.Context, account LinkedAccount) error
	ListAccounts(ctx context.Context, userID string) ([]LinkedAccount, error)
	SaveConsent(ctx context.Context, consent ConsentRecord) error
	LatestConsent(ctx context.Context, userID string) (ConsentRecord, error)
}

// PostgresRepository persists the cache in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository wires a Postgres backed cache.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) UpsertAccount(ctx context.Context, a LinkedAccount) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO linked_accounts
			(user_id, account_id, account_name, bank_name, bank_code, account_type,
			 currency, balance, available_balance, consent_id, linked_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (user_id, account_id) DO UPDATE SET
			account_name = EXCLUDED.account_name,
			bank_name = EXCLUDED.bank_name,
			bank_code = EXCLUDED.bank_code,
			account_type = EXCLUDED.account_type,
			currency = EXCLUDED.currency,
			balance = EXCLUDED.balance,
			available_balance = EXCLUDED.available_balance,
			consent_id = EXCLUDED.consent_id,
			updated_at = EXCLUDED.updated_at`,
		a.UserID, a.AccountID, a.AccountName, a.BankName, a.BankCode, a.AccountType,
		a.Currency, a.Balance, a.AvailableBalance, a.ConsentID, a.LinkedAt, a.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) ListAccounts(ctx context.Context, userID string) ([]LinkedAccount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, account_id, account_name, bank_name, bank_code, account_type,
		       currency, balance, available_balance, consent_id, linked_at, updated_at
		FROM linked_accounts
		WHERE user_id = $1
		ORDER BY linked_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LinkedAccount
	for rows.Next() {
		var a LinkedAccount
		if err := rows.Scan(
			&a.UserID, &a.AccountID, &a.AccountName, &a.BankName, &a.BankCode, &a.AccountType,
			&a.Currency, &a.Balance, &a.AvailableBalance, &a.ConsentID, &a.LinkedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) SaveConsent(ctx context.Context, c ConsentRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO consents (consent_id, user_id, status, expires_at, created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (consent_id) DO UPDATE SET
			status = EXCLUDED.status,
			expires_at = EXCLUDED.expires_at`,
		c.ConsentID, c.UserID, c.Status, c.ExpiresAt, c.CreatedAt,
	)
	return err
}

func (r *PostgresRepository) LatestConsent(ctx context.Context, userID string) (ConsentRecord, error) {
	var c ConsentRecord
	err := r.pool.QueryRow(ctx, `
		SELECT consent_id, user_id, status, expires_at, created_at
		FROM consents
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, userID).
		Scan(&c.ConsentID, &c.UserID, &c.Status, &c.ExpiresAt, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ConsentRecord{}, ErrNotFound
	}
	return c, err
}

type memoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]map[string]LinkedAccount
	consents map[string][]ConsentRecord
}

// NewMemoryRepository builds an in-memory cache for dev and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		accounts: make(map[string]map[string]LinkedAccount),
		consents: make(map[string][]ConsentRecord),
	}
}

func (m *memoryRepository) UpsertAccount(_ context.Context, a LinkedAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byAccount, ok := m.accounts[a.UserID]
	if !ok {
		byAccount = make(map[string]LinkedAccount)
		m.accounts[a.UserID] = byAccount
	}
	if existing, ok := byAccount[a.AccountID]; ok {
		a.LinkedAt = existing.LinkedAt
	}
	byAccount[a.AccountID] = a
	return nil
}

func (m *memoryRepository) ListAccounts(_ context.Context, userID string) ([]LinkedAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byAccount := m.accounts[userID]
	out := make([]LinkedAccount, 0, len(byAccount))
	for _, a := range byAccount {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

func (m *memoryRepository) SaveConsent(_ context.Context, c ConsentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consents[c.UserID] = append(m.consents[c.UserID], c)
	return nil
}

func (m *memoryRepository) LatestConsent(_ context.Context, userID string) (ConsentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.consents[userID]
	if len(list) == 0 {
		return ConsentRecord{}, ErrNotFound
	}
	return list[len(list)-1], nil
}
