package balances

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/ledgerkeeper/internal/common"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/currencies"
	"github.com/shopspring/decimal"
)

type balanceKey struct {
	accountID string
	currency  string
}

// MemoryRepository is a map-backed Repository used in tests and for running
// without a database. It validates currencies against the given registry so
// behavior matches the Postgres foreign key.
type MemoryRepository struct {
	mu       sync.RWMutex
	rows     map[balanceKey]decimal.Decimal
	registry currencies.Repository
}

func NewMemoryRepository(registry currencies.Repository) *MemoryRepository {
	return &MemoryRepository{
		rows:     make(map[balanceKey]decimal.Decimal),
		registry: registry,
	}
}

func (r *MemoryRepository) Get(ctx context.Context, accountID, currency string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rows[balanceKey{accountID, currency}], nil
}

// GetForUpdate behaves like Get; isolation comes from the manager-level
// transaction lock, not from row locks.
func (r *MemoryRepository) GetForUpdate(ctx context.Context, accountID, currency string) (decimal.Decimal, error) {
	return r.Get(ctx, accountID, currency)
}

func (r *MemoryRepository) Upsert(ctx context.Context, accountID, currency string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return common.ErrorInvalidAmount
	}
	if r.registry != nil {
		ok, err := r.registry.Exists(ctx, currency)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrorUnknownCurrency
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[balanceKey{accountID, currency}] = amount
	return nil
}

func (r *MemoryRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Balance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Balance
	for k, amount := range r.rows {
		if k.accountID == accountID {
			result = append(result, models.Balance{AccountID: k.accountID, Currency: k.currency, Amount: amount})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Currency < result[j].Currency })
	return result, nil
}

func (r *MemoryRepository) ListPositive(ctx context.Context) ([]models.Balance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Balance
	for k, amount := range r.rows {
		if amount.IsPositive() {
			result = append(result, models.Balance{AccountID: k.accountID, Currency: k.currency, Amount: amount})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AccountID != result[j].AccountID {
			return result[i].AccountID < result[j].AccountID
		}
		return result[i].Currency < result[j].Currency
	})
	return result, nil
}
