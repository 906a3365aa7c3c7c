package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskward/taskward/internal/application/ports"
	"github.com/taskward/taskward/internal/domain"
	domerrors "github.com/taskward/taskward/internal/domain/errors"
)

const MaxTitleLength = 500

// Service owns task CRUD for a single authenticated principal. Every
// method takes the principal's ID and scopes the underlying query by
// it, so a task belonging to someone else is indistinguishable from a
// task that does not exist.
type Service struct {
	tasks ports.TaskRepository
}

func NewService(tasks ports.TaskRepository) *Service {
	return &Service{tasks: tasks}
}

type CreateInput struct {
	Title string
	Notes string
}

func (s *Service) Create(ctx context.Context, ownerID domain.UserID, input CreateInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || len(title) > MaxTitleLength {
		return nil, domerrors.ErrInvalidInput
	}
	now := time.Now()
	task := &domain.Task{
		ID:        domain.NewTaskID(uuid.New()),
		OwnerID:   ownerID,
		Title:     title,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) Get(ctx context.Context, ownerID domain.UserID, taskID domain.TaskID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(task, ownerID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) List(ctx context.Context, ownerID domain.UserID, limit, offset int) ([]*domain.Task, error) {
	return s.tasks.ListByOwner(ctx, ownerID, limit, offset)
}

type UpdateInput struct {
	Title *string
	Notes *string
	Done  *bool
}

func (s *Service) Update(ctx context.Context, ownerID domain.UserID, taskID domain.TaskID, input UpdateInput) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(task, ownerID); err != nil {
		return nil, err
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" || len(title) > MaxTitleLength {
			return nil, domerrors.ErrInvalidInput
		}
		task.Title = title
	}
	if input.Notes != nil {
		task.Notes = *input.Notes
	}
	if input.Done != nil {
		task.Done = *input.Done
	}
	task.UpdatedAt = time.Now()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) Delete(ctx context.Context, ownerID domain.UserID, taskID domain.TaskID) error {
	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return err
	}
	if err := authorizeOwner(task, ownerID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, ownerID, taskID)
}

// authorizeOwner is the ownership gate. The repository queries are
// already owner-scoped; this re-check keeps the invariant local to the
// service rather than trusting every store implementation, and a denial
// surfaces as ErrNotFound, never as a forbidden that would confirm the
// resource exists.
func authorizeOwner(task *domain.Task, principal domain.UserID) error {
	if task == nil || task.OwnerID != principal {
		return domerrors.ErrNotFound
	}
	return nil
}
