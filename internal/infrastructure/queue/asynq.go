package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/taskward/taskward/internal/application/ports"
)

const TypeAuthEvent = "audit:auth_event"

// EventEnqueuer publishes auth events to Asynq for async fan-out
// (webhooks, audit sinks). Enqueue failures are logged and returned but
// never block the auth path's result.
type EventEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, log zerolog.Logger) (*EventEnqueuer, error) {
	client := asynq.NewClient(redisOpt)
	return &EventEnqueuer{client: client, log: log}, nil
}

func (q *EventEnqueuer) Close() error {
	return q.client.Close()
}

func (q *EventEnqueuer) EnqueueAuthEvent(ctx context.Context, event ports.AuthEvent) error {
	payload, _ := json.Marshal(event)
	task := asynq.NewTask(TypeAuthEvent, payload)
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		q.log.Warn().Err(err).Str("event", event.Event).Msg("enqueue auth event failed")
		return err
	}
	return nil
}

var _ ports.EventEnqueuer = (*EventEnqueuer)(nil)
