package currencies

import (
	"context"
	"sync"
)

// MemoryRepository is a set-backed Repository used in tests and for running
// without a database.
type MemoryRepository struct {
	mu    sync.RWMutex
	codes map[string]struct{}
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{codes: make(map[string]struct{})}
}

func (r *MemoryRepository) Register(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[code] = struct{}{}
	return nil
}

func (r *MemoryRepository) Exists(ctx context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.codes[code]
	return ok, nil
}
