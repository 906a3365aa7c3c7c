package middleware

import (
	"context"

	"github.com/taskward/taskward/internal/domain"
)

type contextKey string

const principalContextKey contextKey = "principal"

// WithPrincipal attaches the authenticated user's ID to the context.
// The value is request-scoped and immutable; handlers read it, nothing
// mutates it.
func WithPrincipal(ctx context.Context, userID domain.UserID) context.Context {
	return context.WithValue(ctx, principalContextKey, userID)
}

// PrincipalFromContext returns the authenticated user's ID, or false
// when the request never passed the auth gate.
func PrincipalFromContext(ctx context.Context) (domain.UserID, bool) {
	v := ctx.Value(principalContextKey)
	if v == nil {
		return domain.UserID{}, false
	}
	id, ok := v.(domain.UserID)
	return id, ok
}
