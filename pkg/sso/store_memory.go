package sso

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
)

// MemoryUserStore keeps users in process memory. It stands in for the admin
// framework's user storage in tests and single-node deployments.
type MemoryUserStore struct {
	lock  sync.RWMutex
	users map[string]*User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[string]*User),
	}
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryUserStore) Create(ctx context.Context, user *User) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrUserExists
		}
	}

	if user.ID == "" {
		user.ID = ksuid.New().String()
	}
	user.CreatedAt = time.Now()

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *MemoryUserStore) Register(ctx context.Context, id string) (*User, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	user.IsActive = true

	clone := *user
	return &clone, nil
}

var _ UserStore = (*MemoryUserStore)(nil)
