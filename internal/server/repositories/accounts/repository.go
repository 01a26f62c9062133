// Package accounts stores ledger identities: username, credential hash, role.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	UpdateRole(ctx context.Context, id string, role models.Role) error
	UpdateCredential(ctx context.Context, id string, credentialHash string) error
}
