package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/taskward/taskward/internal/application/ports"
	"github.com/taskward/taskward/internal/domain"
	domerrors "github.com/taskward/taskward/internal/domain/errors"
)

type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[domain.TaskID]*domain.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[domain.TaskID]*domain.Task)}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := *task
	r.tasks[t.ID] = &t
	return nil
}

// GetByID matches on (id, owner) like the SQL WHERE clause; a foreign
// task comes back as absent.
func (r *TaskRepository) GetByID(ctx context.Context, ownerID domain.UserID, taskID domain.TaskID) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID domain.UserID, limit, offset int) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Task
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			cp := *t
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[task.ID]
	if !ok || t.OwnerID != task.OwnerID {
		return domerrors.ErrNotFound
	}
	cp := *task
	r.tasks[cp.ID] = &cp
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID domain.UserID, taskID domain.TaskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return domerrors.ErrNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

var _ ports.TaskRepository = (*TaskRepository)(nil)
