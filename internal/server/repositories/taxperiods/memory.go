package taxperiods

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/ledgerkeeper/internal/common"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
)

// MemoryRepository is a map-backed Repository used in tests and for running
// without a database.
type MemoryRepository struct {
	mu      sync.Mutex
	periods map[string]*models.TaxPeriod
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{periods: make(map[string]*models.TaxPeriod)}
}

func (r *MemoryRepository) Begin(ctx context.Context, period string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.periods[period]; ok {
		return common.ErrorTaxPeriodApplied
	}
	r.periods[period] = &models.TaxPeriod{Period: period, StartedAt: time.Now().UTC()}
	return nil
}

func (r *MemoryRepository) MarkCompleted(ctx context.Context, period string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.periods[period]
	if !ok {
		return common.ErrorNotFound
	}
	now := time.Now().UTC()
	p.CompletedAt = &now
	return nil
}
