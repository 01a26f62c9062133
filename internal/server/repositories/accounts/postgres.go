package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ledgerkeeper/internal/common"
	"github.com/dmitrijs2005/ledgerkeeper/internal/dbx"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
)

// PostgresRepository implements account storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account. A username collision yields
// common.ErrorDuplicateAccount.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id, username, credential_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Username, account.CredentialHash, account.Role).Scan(&account.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorDuplicateAccount
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

// GetByUsername returns the account with the given display name, or
// common.ErrorNotFound.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `
		SELECT id, username, credential_hash, role, created_at FROM accounts
		WHERE username = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

// GetByID returns the account with the given identifier, or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `
		SELECT id, username, credential_hash, role, created_at FROM accounts
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// UpdateRole changes an account's role.
func (r *PostgresRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	query := `
		UPDATE accounts SET role = $2
		WHERE id = $1
	`
	return r.execOne(ctx, query, id, role)
}

// UpdateCredential replaces an account's credential hash.
func (r *PostgresRepository) UpdateCredential(ctx context.Context, id string, credentialHash string) error {
	query := `
		UPDATE accounts SET credential_hash = $2
		WHERE id = $1
	`
	return r.execOne(ctx, query, id, credentialHash)
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(&account.ID, &account.Username, &account.CredentialHash, &account.Role, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
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
