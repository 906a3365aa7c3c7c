package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskward/taskward/internal/application/ports"
	"github.com/taskward/taskward/internal/domain"
	domerrors "github.com/taskward/taskward/internal/domain/errors"
)

const uniqueViolation = "23505"

const (
	insertUserSQL = `INSERT INTO users (id, email, password_hash, display_name, created_at, updated_at)
	                 VALUES ($1, $2, $3, $4, $5, $6)`
	selectUserByEmailSQL = `SELECT id, email, password_hash, display_name, created_at, updated_at
	                        FROM users WHERE email = $1`
	selectUserByIDSQL = `SELECT id, email, password_hash, display_name, created_at, updated_at
	                     FROM users WHERE id = $1`
	updateDisplayNameSQL = `UPDATE users SET display_name = $1, updated_at = NOW() WHERE id = $2`
	updatePasswordSQL    = `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
)

// UserRepository persists users in Postgres. The unique index on email
// is the authoritative guard against duplicate registration; a
// concurrent insert race surfaces here as ErrEmailTaken.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, insertUserSQL,
		user.ID.UUID, user.Email, user.PasswordHash, user.DisplayName, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domerrors.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, selectUserByEmailSQL, email))
}

func (r *UserRepository) GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, selectUserByIDSQL, userID.UUID))
}

func (r *UserRepository) UpdateDisplayName(ctx context.Context, userID domain.UserID, displayName string) error {
	_, err := r.pool.Exec(ctx, updateDisplayNameSQL, displayName, userID.UUID)
	if err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID domain.UserID, passwordHash string) error {
	_, err := r.pool.Exec(ctx, updatePasswordSQL, passwordHash, userID.UUID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID.UUID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
