package transactions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ledgerkeeper/internal/dbx"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
)

// PostgresRepository implements the transaction log over a dbx.DBTX
// (*sql.DB or *sql.Tx). The seq column breaks timestamp ties by insertion
// order.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts one record.
func (r *PostgresRepository) Append(ctx context.Context, record *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, from_account, to_account, currency, amount, ts, kind)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.FromAccount, record.ToAccount, record.Currency,
		record.Amount, record.Timestamp, record.Kind)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListSince returns records with ts >= since in log order.
func (r *PostgresRepository) ListSince(ctx context.Context, since time.Time) ([]models.Transaction, error) {
	query := `
		SELECT id, from_account, to_account, currency, amount, ts, kind FROM transactions
		WHERE ts >= $1
		ORDER BY ts, seq
	`
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanTransactions(rows)
}

// ListByAccount returns records where accountID is source or destination.
func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	query := `
		SELECT id, from_account, to_account, currency, amount, ts, kind FROM transactions
		WHERE from_account = $1 OR to_account = $1
		ORDER BY ts, seq
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	var result []models.Transaction
	for rows.Next() {
		var item models.Transaction
		if err := rows.Scan(
			&item.ID, &item.FromAccount, &item.ToAccount, &item.Currency,
			&item.Amount, &item.Timestamp, &item.Kind,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
