package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/ledgerkeeper/internal/common"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
)

// MemoryRepository is a map-backed Repository used in tests and for running
// without a database. Semantics mirror the Postgres implementation.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*models.Account
	byUsername map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]*models.Account),
		byUsername: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[account.Username]; ok {
		return nil, common.ErrorDuplicateAccount
	}
	cp := *account
	cp.CreatedAt = time.Now().UTC()
	r.byID[cp.ID] = &cp
	r.byUsername[cp.Username] = cp.ID

	out := cp
	return &out, nil
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *account
	return &cp, nil
}

func (r *MemoryRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	account.Role = role
	return nil
}

func (r *MemoryRepository) UpdateCredential(ctx context.Context, id string, credentialHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	account.CredentialHash = credentialHash
	return nil
}
