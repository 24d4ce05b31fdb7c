package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/blogauth/internal/common"
	"github.com/dmitrijs2005/blogauth/internal/server/models"
)

// MemoryStore keeps users in process memory. It is used when no database
// is configured and in tests. WithinTx serializes units of work but does
// not roll back partial writes.
type MemoryStore struct {
	mu     sync.RWMutex
	txMu   sync.Mutex
	nextID int64
	byID   map[int64]*models.User
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[int64]*models.User),
		now:  time.Now,
	}
}

func (s *MemoryStore) FindByEmailOrPhone(_ context.Context, email, phone string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *models.User
	for _, u := range s.byID {
		if (email != "" && u.Email == email) || (phone != "" && u.Phone == phone) {
			if found == nil || u.ID < found.ID {
				found = u
			}
		}
	}
	if found == nil {
		return nil, common.ErrNotFound
	}
	c := *found
	return &c, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *MemoryStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byID {
		if (user.Email != "" && u.Email == user.Email) || (user.Phone != "" && u.Phone == user.Phone) {
			return nil, common.ErrDuplicateCredential
		}
	}

	s.nextID++
	now := s.now().UTC()
	user.ID = s.nextID
	user.TokenVersion = 0
	user.CreatedAt = now
	user.UpdatedAt = now

	c := *user
	s.byID[c.ID] = &c
	return user, nil
}

func (s *MemoryStore) UpdateStatusAndLogin(_ context.Context, id int64, status models.Status, lastLoginAt time.Time) error {
	return s.update(id, func(u *models.User) {
		u.Status = status
		t := lastLoginAt
		u.LastLoginAt = &t
	})
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id int64, status models.Status) error {
	return s.update(id, func(u *models.User) { u.Status = status })
}

func (s *MemoryStore) IncrementTokenVersion(_ context.Context, id int64) (int64, error) {
	var version int64
	err := s.update(id, func(u *models.User) {
		u.TokenVersion++
		version = u.TokenVersion
	})
	return version, err
}

func (s *MemoryStore) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	return s.update(id, func(u *models.User) { u.PasswordHash = hash })
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx, s)
}

func (s *MemoryStore) update(id int64, fn func(u *models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = s.now().UTC()
	return nil
}
