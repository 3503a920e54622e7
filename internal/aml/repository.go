package aml

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists AML alerts.
type Repository interface {
	Create(ctx context.Context, alert Alert) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Alert, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// PostgresRepository stores alerts in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed alert store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an alert.
func (r *PostgresRepository) Create(ctx context.Context, alert Alert) error {
	alertID, err := uuid.Parse(alert.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(alert.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO aml_alerts (id, user_id, kind, amount_fils, currency, note, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		alertID, userID, alert.Kind, alert.AmountFils, alert.Currency, alert.Note, alert.Status, alert.CreatedAt.UTC())
	return err
}

// ListByUser returns the user's alerts, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]Alert, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, `SELECT id, user_id, kind, amount_fils, currency, note, status, created_at
        FROM aml_alerts WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, uid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var (
			id        uuid.UUID
			uidVal    uuid.UUID
			createdAt time.Time
			alert     Alert
		)
		if err := rows.Scan(&id, &uidVal, &alert.Kind, &alert.AmountFils, &alert.Currency,
			&alert.Note, &alert.Status, &createdAt); err != nil {
			return nil, err
		}
		alert.ID = id.String()
		alert.UserID = uidVal.String()
		alert.CreatedAt = createdAt.UTC()
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

// CountByStatus aggregates alert counts for the dashboard.
func (r *PostgresRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM aml_alerts GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

type memoryRepository struct {
	mu     sync.RWMutex
	alerts []Alert
}

// NewMemoryRepository constructs an in-memory alert store for tests and
// database-less development.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, alert Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
	return nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID string, limit int) ([]Alert, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Alert
	for _, alert := range r.alerts {
		if alert.UserID == userID {
			out = append(out, alert)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepository) CountByStatus(_ context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int)
	for _, alert := range r.alerts {
		counts[alert.Status]++
	}
	return counts, nil
}
