package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/taskward/taskward/internal/application/ports"
	"github.com/taskward/taskward/internal/infrastructure/http/middleware"
)

// UsersHandler handles /users/me. Requires the auth gate.
type UsersHandler struct {
	userRepo ports.UserRepository
}

func NewUsersHandler(userRepo ports.UserRepository) *UsersHandler {
	return &UsersHandler{userRepo: userRepo}
}

// Me returns the current user from the token's principal.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	if user == nil {
		// Valid token for a user the store no longer has. Treat as an
		// authentication failure, not a 404 on /users/me.
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, toPrincipalJSON(user))
}

// UpdateMe handles PATCH /users/me (display name only; email and digest
// have their own paths).
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}
	var body struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid body")
		return
	}
	name := SanitizeDisplayName(body.DisplayName)
	if err := h.userRepo.UpdateDisplayName(r.Context(), userID, name); err != nil {
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil || user == nil {
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toPrincipalJSON(user))
}
