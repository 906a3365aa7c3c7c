package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/taskward/taskward/internal/application/ports"
	"github.com/taskward/taskward/internal/domain"
)

// AuthValidator is the auth gate: it extracts the bearer token, hands
// it to the verifier, and attaches the principal to the request
// context. It never touches the user store; the token alone decides.
type AuthValidator struct {
	issuer ports.TokenIssuer
}

func NewAuthValidator(issuer ports.TokenIssuer) *AuthValidator {
	return &AuthValidator{issuer: issuer}
}

func (m *AuthValidator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			writeAuthErr(w, "missing_credential", "missing or invalid authorization header")
			return
		}
		tokenString := strings.TrimPrefix(auth, "Bearer ")
		if tokenString == "" {
			writeAuthErr(w, "missing_credential", "missing or invalid authorization header")
			return
		}
		userIDStr, err := m.issuer.Verify(tokenString)
		if err != nil {
			writeAuthErr(w, "unauthorized", "invalid token")
			return
		}
		userID, err := domain.ParseUserID(userIDStr)
		if err != nil {
			// A signed token carrying a non-UUID subject is a server-side
			// fault; fail closed as unauthenticated.
			writeAuthErr(w, "unauthorized", "invalid token")
			return
		}
		ctx := WithPrincipal(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeAuthErr(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}
