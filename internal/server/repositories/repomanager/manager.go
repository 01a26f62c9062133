// Package repomanager vends repository implementations for a storage backend
// and owns the transactional boundary the ledger engine builds its atomicity
// on.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ledgerkeeper/internal/dbx"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/balances"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/currencies"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/taxperiods"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/transactions"
)

// RepositoryManager provides repositories bound to a DBTX, so the same code
// path runs inside or outside a transaction, plus the WithTx boundary itself.
// Passing a nil DBTX binds a repository to the backend's default handle.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error

	// WithTx runs fn as one isolated unit: all of fn's repository writes
	// commit together or not at all.
	WithTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx dbx.DBTX) error) error

	Accounts(db dbx.DBTX) accounts.Repository
	Balances(db dbx.DBTX) balances.Repository
	Currencies(db dbx.DBTX) currencies.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	TaxPeriods(db dbx.DBTX) taxperiods.Repository

	Close() error
}
