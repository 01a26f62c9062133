// Package transactions is the append-only transaction log. Records are never
// updated or deleted; same-key append order matches the balance update order
// it documents.
package transactions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
)

type Repository interface {
	// Append writes one immutable record. It fails only on storage faults.
	Append(ctx context.Context, record *models.Transaction) error

	// ListSince returns records with timestamp >= since, ordered by
	// timestamp then insertion order.
	ListSince(ctx context.Context, since time.Time) ([]models.Transaction, error)

	// ListByAccount returns records where the account is either side.
	ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error)
}
