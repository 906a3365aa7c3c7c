package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/taskward/taskward/internal/application/ports"
)

// Worker consumes queued auth events and forwards them to the webhook
// emitter when one is configured; otherwise it only logs them.
type Worker struct {
	srv     *asynq.Server
	mux     *asynq.ServeMux
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to start.
func NewWorker(redisOpt asynq.RedisClientOpt, emitter ports.WebhookEmitter, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, emitter: emitter, log: log}
	mux.HandleFunc(TypeAuthEvent, w.handleAuthEvent)
	return w
}

func (w *Worker) handleAuthEvent(ctx context.Context, t *asynq.Task) error {
	var event ports.AuthEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		w.log.Error().Err(err).Msg("auth event payload invalid")
		return err
	}
	w.log.Info().
		Str("event", event.Event).
		Str("user_id", event.UserID).
		Bool("success", event.Success).
		Msg("auth event")
	if w.emitter != nil {
		return w.emitter.Emit(ctx, event)
	}
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
