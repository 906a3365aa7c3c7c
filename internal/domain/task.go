package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskID is a value object for task identity.
type TaskID struct{ uuid.UUID }

// NewTaskID creates a new TaskID from uuid.
func NewTaskID(id uuid.UUID) TaskID { return TaskID{UUID: id} }

// String returns the canonical string form.
func (t TaskID) String() string { return t.UUID.String() }

// ParseTaskID parses the canonical string form.
func ParseTaskID(s string) (TaskID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return TaskID{}, err
	}
	return TaskID{UUID: id}, nil
}

// Task is an owner-scoped item. OwnerID is set at creation and never
// changes; every single-row query must filter by it.
type Task struct {
	ID        TaskID
	OwnerID   UserID
	Title     string
	Notes     string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
