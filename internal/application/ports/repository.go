package ports

import (
	"context"

	"github.com/taskward/taskward/internal/domain"
)

// UserRepository defines persistence for users. GetByEmail and GetByID
// return (nil, nil) when no row matches. Create returns
// errors.ErrEmailTaken on an email collision; the store's unique
// constraint is the source of truth, not the caller's existence check.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error)
	UpdateDisplayName(ctx context.Context, userID domain.UserID, displayName string) error
	UpdatePassword(ctx context.Context, userID domain.UserID, passwordHash string) error
}

// TaskRepository defines persistence for tasks. Every single-row
// operation takes the owner and matches on (id, owner_id); a row owned
// by someone else behaves exactly like a missing row.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, ownerID domain.UserID, taskID domain.TaskID) (*domain.Task, error)
	ListByOwner(ctx context.Context, ownerID domain.UserID, limit, offset int) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, ownerID domain.UserID, taskID domain.TaskID) error
}
