package balances

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ledgerkeeper/internal/common"
	"github.com/dmitrijs2005/ledgerkeeper/internal/dbx"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
	"github.com/shopspring/decimal"
)

// PostgresRepository implements balance storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the amount for (accountID, currency), or zero if no row exists.
func (r *PostgresRepository) Get(ctx context.Context, accountID, currency string) (decimal.Decimal, error) {
	query := `
		SELECT amount FROM balances
		WHERE account_id = $1 AND currency = $2
	`
	return r.scanAmount(r.db.QueryRowContext(ctx, query, accountID, currency))
}

// GetForUpdate is Get with a FOR UPDATE row lock. Callers lock rows in
// deterministic (accountID, currency) order to avoid deadlocks.
//
// An absent row is first materialized with amount 0 so the lock has a row to
// hold: locking nothing would let two transactions both read 0 for the same
// key and overwrite each other's credit. A zero row reads the same as an
// absent one, so materializing changes no observable balance.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, accountID, currency string) (decimal.Decimal, error) {
	materialize := `
		INSERT INTO balances (account_id, currency, amount)
		VALUES ($1, $2, 0)
		ON CONFLICT (account_id, currency) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, materialize, accountID, currency); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return decimal.Zero, common.ErrorUnknownCurrency
		}
		return decimal.Zero, fmt.Errorf("db error: %w", err)
	}

	query := `
		SELECT amount FROM balances
		WHERE account_id = $1 AND currency = $2
		FOR UPDATE
	`
	return r.scanAmount(r.db.QueryRowContext(ctx, query, accountID, currency))
}

// Upsert writes the balance row for (accountID, currency).
func (r *PostgresRepository) Upsert(ctx context.Context, accountID, currency string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return common.ErrorInvalidAmount
	}
	query := `
		INSERT INTO balances (account_id, currency, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, currency)
		DO UPDATE SET amount = EXCLUDED.amount
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, currency, amount); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return common.ErrorUnknownCurrency
		}
		if dbx.IsCheckViolation(err) {
			return common.ErrorInvalidAmount
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByAccount returns all balance rows for accountID ordered by currency.
func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Balance, error) {
	query := `
		SELECT account_id, currency, amount FROM balances
		WHERE account_id = $1
		ORDER BY currency
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanBalances(rows)
}

// ListPositive returns every balance row with amount > 0.
func (r *PostgresRepository) ListPositive(ctx context.Context) ([]models.Balance, error) {
	query := `
		SELECT account_id, currency, amount FROM balances
		WHERE amount > 0
		ORDER BY account_id, currency
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanBalances(rows)
}

func (r *PostgresRepository) scanAmount(row *sql.Row) (decimal.Decimal, error) {
	var amount decimal.Decimal
	if err := row.Scan(&amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("db error: %w", err)
	}
	return amount, nil
}

func scanBalances(rows *sql.Rows) ([]models.Balance, error) {
	defer rows.Close()

	var result []models.Balance
	for rows.Next() {
		var b models.Balance
		if err := rows.Scan(&b.AccountID, &b.Currency, &b.Amount); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
