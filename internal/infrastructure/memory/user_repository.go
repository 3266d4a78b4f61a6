package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
)

// UserRepository keeps the user directory in process memory.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.DirectoryUser // keyed by lower-cased email
}

// NewUserRepository returns an empty in-memory user directory.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.DirectoryUser)}
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.DirectoryUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepository) Create(_ context.Context, user *domain.DirectoryUser) (*domain.DirectoryUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, exists := r.users[key]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *user
	r.users[key] = &clone
	out := clone
	return &out, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
