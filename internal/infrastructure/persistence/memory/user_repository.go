// Package memory holds in-memory repository implementations used by
// tests and by local development without Postgres. They enforce the
// same invariants as the SQL schema, in particular atomic email
// uniqueness under concurrent registration.
package memory

import (
	"context"
	"sync"

	"github.com/taskward/taskward/internal/application/ports"
	"github.com/taskward/taskward/internal/domain"
	domerrors "github.com/taskward/taskward/internal/domain/errors"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[domain.UserID]*domain.User
	byEmail map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[domain.UserID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

// Create inserts the user or fails with ErrEmailTaken. The
// check-and-insert happens under one lock, mirroring the database's
// unique constraint: two concurrent registrations for the same email
// yield exactly one success.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return domerrors.ErrEmailTaken
	}
	u := *user
	r.byID[u.ID] = &u
	r.byEmail[u.Email] = &u
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) UpdateDisplayName(ctx context.Context, userID domain.UserID, displayName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domerrors.ErrNotFound
	}
	u.DisplayName = displayName
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID domain.UserID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domerrors.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
