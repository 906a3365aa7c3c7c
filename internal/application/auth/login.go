package auth

import (
	"context"
	"strings"

	"github.com/taskward/taskward/internal/application/ports"
	"github.com/taskward/taskward/internal/domain"
	domerrors "github.com/taskward/taskward/internal/domain/errors"
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresIn int64
}

// Login verifies credentials and issues a token. Unknown email and
// wrong password produce the same error, and the unknown-email path
// still burns a full argon2 verification against a throwaway digest so
// the two are near-indistinguishable by timing as well.
type Login struct {
	users       ports.UserRepository
	hasher      ports.PasswordHasher
	issuer      ports.TokenIssuer
	lockout     ports.LoginLockoutStore
	dummyDigest string
}

func NewLogin(users ports.UserRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer, lockout ports.LoginLockoutStore) (*Login, error) {
	dummy, err := hasher.Hash("taskward-dummy-password")
	if err != nil {
		return nil, err
	}
	return &Login{users: users, hasher: hasher, issuer: issuer, lockout: lockout, dummyDigest: dummy}, nil
}

func (uc *Login) Execute(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if uc.lockout != nil {
		if locked, _ := uc.lockout.IsLocked(ctx, email); locked {
			return nil, domerrors.ErrAccountLocked
		}
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_, _ = uc.hasher.Verify(input.Password, uc.dummyDigest)
		uc.recordFailure(ctx, email)
		return nil, domerrors.ErrInvalidCredentials
	}
	ok, err := uc.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		// Undecodable stored digest. Fail closed with the generic error;
		// the cause is for the logs, not the caller.
		return nil, err
	}
	if !ok {
		uc.recordFailure(ctx, email)
		return nil, domerrors.ErrInvalidCredentials
	}
	if uc.lockout != nil {
		uc.lockout.RecordSuccess(ctx, email)
	}
	token, expiresIn, err := uc.issuer.Issue(user.ID.String())
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token, ExpiresIn: expiresIn}, nil
}

func (uc *Login) recordFailure(ctx context.Context, email string) {
	if uc.lockout != nil {
		uc.lockout.RecordFailure(ctx, email)
	}
}
