package ports

import "context"

// AuthEvent is a single audit event for logging or webhooks.
type AuthEvent struct {
	Event   string `json:"event"` // user.register, user.login, user.password_change
	UserID  string `json:"user_id"`
	Email   string `json:"email,omitempty"`
	IP      string `json:"ip,omitempty"`
	Success bool   `json:"success"`
	Err     string `json:"error,omitempty"`
}

// EventEnqueuer enqueues async work (audit fan-out, webhooks).
type EventEnqueuer interface {
	EnqueueAuthEvent(ctx context.Context, event AuthEvent) error
}

// WebhookEmitter delivers an auth event to an external endpoint.
type WebhookEmitter interface {
	Emit(ctx context.Context, event AuthEvent) error
}
