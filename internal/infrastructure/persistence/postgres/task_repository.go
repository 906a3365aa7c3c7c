package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskward/taskward/internal/application/ports"
	"github.com/taskward/taskward/internal/domain"
	domerrors "github.com/taskward/taskward/internal/domain/errors"
)

const (
	insertTaskSQL = `INSERT INTO tasks (id, owner_id, title, notes, done, created_at, updated_at)
	                 VALUES ($1, $2, $3, $4, $5, $6, $7)`
	selectTaskSQL = `SELECT id, owner_id, title, notes, done, created_at, updated_at
	                 FROM tasks WHERE id = $1 AND owner_id = $2`
	selectTasksByOwnerSQL = `SELECT id, owner_id, title, notes, done, created_at, updated_at
	                         FROM tasks WHERE owner_id = $1
	                         ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	updateTaskSQL = `UPDATE tasks SET title = $1, notes = $2, done = $3, updated_at = $4
	                 WHERE id = $5 AND owner_id = $6`
	deleteTaskSQL = `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`
)

// TaskRepository persists tasks in Postgres. Every statement other than
// the insert carries owner_id in its WHERE clause, so the database
// itself cannot return or touch another account's rows.
type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	_, err := r.pool.Exec(ctx, insertTaskSQL,
		task.ID.UUID, task.OwnerID.UUID, task.Title, task.Notes, task.Done, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, ownerID domain.UserID, taskID domain.TaskID) (*domain.Task, error) {
	var t domain.Task
	err := r.pool.QueryRow(ctx, selectTaskSQL, taskID.UUID, ownerID.UUID).
		Scan(&t.ID.UUID, &t.OwnerID.UUID, &t.Title, &t.Notes, &t.Done, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select task: %w", err)
	}
	return &t, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID domain.UserID, limit, offset int) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx, selectTasksByOwnerSQL, ownerID.UUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var list []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID.UUID, &t.OwnerID.UUID, &t.Title, &t.Notes, &t.Done, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	tag, err := r.pool.Exec(ctx, updateTaskSQL,
		task.Title, task.Notes, task.Done, task.UpdatedAt, task.ID.UUID, task.OwnerID.UUID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID domain.UserID, taskID domain.TaskID) error {
	tag, err := r.pool.Exec(ctx, deleteTaskSQL, taskID.UUID, ownerID.UUID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrNotFound
	}
	return nil
}

var _ ports.TaskRepository = (*TaskRepository)(nil)
