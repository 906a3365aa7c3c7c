package auth

import (
	"context"

	"github.com/taskward/taskward/internal/application/ports"
	"github.com/taskward/taskward/internal/domain"
	domerrors "github.com/taskward/taskward/internal/domain/errors"
)

type ChangePasswordInput struct {
	UserID          domain.UserID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword is the only path that mutates a stored digest: the
// current password must verify, and the new one is re-hashed with a
// fresh salt before it is written.
type ChangePassword struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
}

func NewChangePassword(users ports.UserRepository, hasher ports.PasswordHasher) *ChangePassword {
	return &ChangePassword{users: users, hasher: hasher}
}

func (uc *ChangePassword) Execute(ctx context.Context, input ChangePasswordInput) error {
	if input.NewPassword == "" {
		return domerrors.ErrInvalidInput
	}
	user, err := uc.users.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return domerrors.ErrUnauthenticated
	}
	ok, err := uc.hasher.Verify(input.CurrentPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return domerrors.ErrInvalidCredentials
	}
	hash, err := uc.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	return uc.users.UpdatePassword(ctx, user.ID, hash)
}
