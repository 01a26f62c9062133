package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ledgerkeeper/internal/dbx"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/balances"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/currencies"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/taxperiods"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/transactions"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories and exposes
// goose schema migrations.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// NewPostgresRepositoryManager constructs a manager over an open *sql.DB
// (pgx stdlib driver).
func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{db: db}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, ".")
}

// WithTx delegates to dbx.WithTx on the managed database.
func (m *PostgresRepositoryManager) WithTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, m.db, opts, fn)
}

func (m *PostgresRepositoryManager) handle(db dbx.DBTX) dbx.DBTX {
	if db == nil {
		return m.db
	}
	return db
}

// Accounts returns an accounts.Repository bound to db, or to the managed
// database when db is nil.
func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(m.handle(db))
}

// Balances returns a balances.Repository bound to db.
func (m *PostgresRepositoryManager) Balances(db dbx.DBTX) balances.Repository {
	return balances.NewPostgresRepository(m.handle(db))
}

// Currencies returns a currencies.Repository bound to db.
func (m *PostgresRepositoryManager) Currencies(db dbx.DBTX) currencies.Repository {
	return currencies.NewPostgresRepository(m.handle(db))
}

// Transactions returns a transactions.Repository bound to db.
func (m *PostgresRepositoryManager) Transactions(db dbx.DBTX) transactions.Repository {
	return transactions.NewPostgresRepository(m.handle(db))
}

// TaxPeriods returns a taxperiods.Repository bound to db.
func (m *PostgresRepositoryManager) TaxPeriods(db dbx.DBTX) taxperiods.Repository {
	return taxperiods.NewPostgresRepository(m.handle(db))
}

// Close closes the underlying database handle.
func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
