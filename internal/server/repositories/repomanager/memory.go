package repomanager

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/ledgerkeeper/internal/dbx"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/balances"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/currencies"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/taxperiods"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/transactions"
)

// InMemoryRepositoryManager vends map-backed repositories sharing one state.
// WithTx serializes transactional units behind a single mutex: coarser than
// the row locks of the Postgres backend, but with the same observable
// atomicity. The memory repositories only mutate state after validation, so
// a unit that returns an error has written nothing and there is no rollback
// to perform.
type InMemoryRepositoryManager struct {
	txMu sync.Mutex

	accounts     *accounts.MemoryRepository
	balances     *balances.MemoryRepository
	currencies   *currencies.MemoryRepository
	transactions *transactions.MemoryRepository
	taxPeriods   *taxperiods.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	registry := currencies.NewMemoryRepository()
	return &InMemoryRepositoryManager{
		accounts:     accounts.NewMemoryRepository(),
		balances:     balances.NewMemoryRepository(registry),
		currencies:   registry,
		transactions: transactions.NewMemoryRepository(),
		taxPeriods:   taxperiods.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

// WithTx runs fn under the transaction mutex. The DBTX handed to fn is nil;
// memory repositories ignore it.
func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return m.accounts
}

func (m *InMemoryRepositoryManager) Balances(db dbx.DBTX) balances.Repository {
	return m.balances
}

func (m *InMemoryRepositoryManager) Currencies(db dbx.DBTX) currencies.Repository {
	return m.currencies
}

func (m *InMemoryRepositoryManager) Transactions(db dbx.DBTX) transactions.Repository {
	return m.transactions
}

func (m *InMemoryRepositoryManager) TaxPeriods(db dbx.DBTX) taxperiods.Repository {
	return m.taxPeriods
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}
