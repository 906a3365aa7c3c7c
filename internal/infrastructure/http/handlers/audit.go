package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/taskward/taskward/internal/application/ports"
)

// AuditLog logs auth events (user_id, IP, request_id).
func AuditLog(log zerolog.Logger, r *http.Request, event, userID string, success bool, errMsg string) {
	ev := log.Info()
	if !success {
		ev = log.Warn()
	}
	ev.
		Str("event", event).
		Str("user_id", userID).
		Str("ip", getClientIP(r)).
		Str("request_id", middleware.GetReqID(r.Context())).
		Bool("success", success)
	if errMsg != "" {
		ev.Str("error", errMsg)
	}
	ev.Msg("auth_audit")
}

// AuditEmit logs the event and, if enqueuer is non-nil, hands it to the
// async queue for webhook fan-out. Enqueue failures are already logged
// by the enqueuer and never affect the response.
func AuditEmit(log zerolog.Logger, r *http.Request, enqueuer ports.EventEnqueuer, event, userID string, success bool, errMsg string) {
	AuditLog(log, r, event, userID, success, errMsg)
	if enqueuer != nil {
		_ = enqueuer.EnqueueAuthEvent(r.Context(), ports.AuthEvent{
			Event:   event,
			UserID:  userID,
			IP:      getClientIP(r),
			Success: success,
			Err:     errMsg,
		})
	}
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	return r.RemoteAddr
}
