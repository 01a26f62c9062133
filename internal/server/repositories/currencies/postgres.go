package currencies

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ledgerkeeper/internal/dbx"
)

// PostgresRepository implements the currency registry over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Register inserts code, ignoring duplicates.
func (r *PostgresRepository) Register(ctx context.Context, code string) error {
	query := `
		INSERT INTO currencies (code)
		VALUES ($1)
		ON CONFLICT (code) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, code); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Exists reports whether code is registered.
func (r *PostgresRepository) Exists(ctx context.Context, code string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM currencies WHERE code = $1)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}
