package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskward/taskward/internal/application/ports"
	"github.com/taskward/taskward/internal/domain"
	domerrors "github.com/taskward/taskward/internal/domain/errors"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

type RegisterResult struct {
	User      *domain.User
	Token     string
	ExpiresIn int64
}

// Register creates an account and issues its first token. The
// repository's unique constraint is what actually guarantees one
// account per email; the GetByEmail pre-check only produces a friendly
// error on the common path.
type Register struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	issuer ports.TokenIssuer
}

func NewRegister(users ports.UserRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer) *Register {
	return &Register{users: users, hasher: hasher, issuer: issuer}
}

func (uc *Register) Execute(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !emailRegex.MatchString(email) {
		return nil, domerrors.ErrInvalidInput
	}
	if input.Password == "" {
		return nil, domerrors.ErrInvalidInput
	}
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrEmailTaken
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	token, expiresIn, err := uc.issuer.Issue(user.ID.String())
	if err != nil {
		return nil, err
	}
	return &RegisterResult{User: user, Token: token, ExpiresIn: expiresIn}, nil
}
