package transactions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
)

// MemoryRepository is a slice-backed Repository used in tests and for running
// without a database. Append order is insertion order, matching the seq
// column of the Postgres implementation.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []models.Transaction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Append(ctx context.Context, record *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return nil
}

func (r *MemoryRepository) ListSince(ctx context.Context, since time.Time) ([]models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Transaction
	for _, record := range r.records {
		if !record.Timestamp.Before(since) {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *MemoryRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Transaction
	for _, record := range r.records {
		if record.ToAccount == accountID ||
			(record.FromAccount != nil && *record.FromAccount == accountID) {
			result = append(result, record)
		}
	}
	return result, nil
}
