package transactions

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.RWMutex
	records []Transaction
}

// NewMemoryRepository constructs an in-memory transaction log for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Append(_ context.Context, tx Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, tx)
	return nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID string, opts ListOptions) ([]Transaction, error) {
	opts = opts.normalize()
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Transaction
	for _, tx := range r.records {
		if tx.UserID != userID {
			continue
		}
		if opts.Type != "" && tx.Type != opts.Type {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if opts.Offset >= len(out) {
		return nil, nil
	}
	out = out[opts.Offset:]
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == id {
			r.records[i].Status = status
			r.records[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrNotFound
}
