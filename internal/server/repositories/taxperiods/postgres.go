package taxperiods

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ledgerkeeper/internal/common"
	"github.com/dmitrijs2005/ledgerkeeper/internal/dbx"
)

// PostgresRepository implements the tax period marker table over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Begin inserts the period marker. The primary key on period rejects a
// second sweep for the same period.
func (r *PostgresRepository) Begin(ctx context.Context, period string) error {
	query := `
		INSERT INTO tax_periods (period)
		VALUES ($1)
	`
	if _, err := r.db.ExecContext(ctx, query, period); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorTaxPeriodApplied
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// MarkCompleted stamps completed_at for the period.
func (r *PostgresRepository) MarkCompleted(ctx context.Context, period string) error {
	query := `
		UPDATE tax_periods SET completed_at = now()
		WHERE period = $1
	`
	res, err := r.db.ExecContext(ctx, query, period)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
