package repomanager

import (
	"context"

	"github.com/dmitrijs2005/blogauth/internal/server/repositories/users"
)

// RepositoryManager owns the persistence backend of the server: it prepares
// the schema and vends the credential store.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	UserStore() users.Store
	Close() error
}

// MemoryRepositoryManager serves an in-process store. Nothing survives a
// restart.
type MemoryRepositoryManager struct {
	store *users.MemoryStore
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: users.NewMemoryStore()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) UserStore() users.Store { return m.store }

func (m *MemoryRepositoryManager) Close() error { return nil }
