// Package balances stores the (account, currency) → amount projection.
package balances

import (
	"context"

	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// Get returns the balance amount, defaulting to zero for an absent row.
	Get(ctx context.Context, accountID, currency string) (decimal.Decimal, error)

	// GetForUpdate reads like Get but takes a row lock, so concurrent
	// transfers touching the same row serialize. An absent row is
	// materialized with amount 0 before locking; without a row to lock,
	// two transactions crediting the same new key would both read 0 and
	// the first credit would be lost. Only meaningful inside a
	// transaction.
	GetForUpdate(ctx context.Context, accountID, currency string) (decimal.Decimal, error)

	// Upsert writes the row. Negative amounts are rejected with
	// common.ErrorInvalidAmount, unregistered currencies with
	// common.ErrorUnknownCurrency.
	Upsert(ctx context.Context, accountID, currency string, amount decimal.Decimal) error

	// ListByAccount returns all rows for one account ordered by currency.
	ListByAccount(ctx context.Context, accountID string) ([]models.Balance, error)

	// ListPositive returns every row with amount > 0. The tax sweep iterates
	// this snapshot.
	ListPositive(ctx context.Context) ([]models.Balance, error)
}
