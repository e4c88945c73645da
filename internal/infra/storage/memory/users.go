package memory

import (
	"context"
	"strings"
	"sync"

	domainuser "stuverse/internal/domain/user"
)

// UserRepository stores users in memory. Tests and demo mode only.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[domainuser.ID]*domainuser.User
	byEmail map[string]domainuser.ID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[domainuser.ID]*domainuser.User),
		byEmail: make(map[string]domainuser.ID),
	}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.byID[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domainuser.NormalizeEmail(email)]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	if u, ok := r.byID[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	if u == nil || strings.TrimSpace(string(u.ID)) == "" {
		return domainuser.ErrIDRequired
	}
	emailKey := domainuser.NormalizeEmail(u.Email)
	if emailKey == "" {
		return domainuser.ErrEmailRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byEmail[emailKey]; ok && existing != u.ID {
		return domainuser.ErrEmailAlreadyUsed
	}
	r.byEmail[emailKey] = u.ID
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func cloneUser(u *domainuser.User) *domainuser.User {
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}
