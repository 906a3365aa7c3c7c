package queue

import (
	"context"

	"github.com/taskward/taskward/internal/application/ports"
)

// NoopEnqueuer is a no-op enqueuer when Redis/Asynq is not configured.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer {
	return &NoopEnqueuer{}
}

func (q *NoopEnqueuer) EnqueueAuthEvent(ctx context.Context, event ports.AuthEvent) error {
	return nil
}

var _ ports.EventEnqueuer = (*NoopEnqueuer)(nil)
