package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/taskward/taskward/internal/application/auth"
	"github.com/taskward/taskward/internal/application/ports"
	"github.com/taskward/taskward/internal/domain"
	domerrors "github.com/taskward/taskward/internal/domain/errors"
	"github.com/taskward/taskward/internal/infrastructure/http/middleware"
)

// AuthHandler serves /auth/* — credential issuance and the password
// change path. All failure responses use the stable code/message pairs
// from errorcodes.go.
type AuthHandler struct {
	register       *auth.Register
	login          *auth.Login
	changePassword *auth.ChangePassword
	enqueuer       ports.EventEnqueuer
	validate       *validator.Validate
	log            zerolog.Logger
}

func NewAuthHandler(register *auth.Register, login *auth.Login, changePassword *auth.ChangePassword, enqueuer ports.EventEnqueuer, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		register:       register,
		login:          login,
		changePassword: changePassword,
		enqueuer:       enqueuer,
		validate:       validator.New(),
		log:            log,
	}
}

// principalJSON is the public shape of a user: never the digest.
type principalJSON struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   string `json:"created_at"`
}

func toPrincipalJSON(u *domain.User) principalJSON {
	return principalJSON{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email       string `json:"email" validate:"required,email,max=254"`
		Password    string `json:"password" validate:"required,min=8,max=128"`
		DisplayName string `json:"display_name" validate:"max=100"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid email or password")
		return
	}
	email := SanitizeEmail(body.Email)
	password := SanitizePassword(body.Password)
	if email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid email or password length")
		return
	}
	result, err := h.register.Execute(r.Context(), auth.RegisterInput{
		Email:       email,
		Password:    password,
		DisplayName: SanitizeDisplayName(body.DisplayName),
	})
	if err != nil {
		AuditEmit(h.log, r, h.enqueuer, "user.register", "", false, err.Error())
		middleware.RecordAuthAttempt("register", false)
		switch {
		case errors.Is(err, domerrors.ErrEmailTaken):
			writeErr(w, http.StatusConflict, ErrCodeConflict, err.Error())
		case errors.Is(err, domerrors.ErrInvalidInput):
			writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		default:
			h.log.Error().Err(err).Msg("register failed")
			writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		}
		return
	}
	AuditEmit(h.log, r, h.enqueuer, "user.register", result.User.ID.String(), true, "")
	middleware.RecordAuthAttempt("register", true)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token":      result.Token,
		"expires_in": result.ExpiresIn,
		"user":       toPrincipalJSON(result.User),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		// A malformed email cannot belong to an account; answer with the
		// same generic shape as a failed login rather than a field-level
		// validation detail.
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, domerrors.ErrInvalidCredentials.Error())
		return
	}
	email := SanitizeEmail(body.Email)
	password := SanitizePassword(body.Password)
	if email == "" || password == "" {
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, domerrors.ErrInvalidCredentials.Error())
		return
	}
	result, err := h.login.Execute(r.Context(), auth.LoginInput{Email: email, Password: password})
	if err != nil {
		AuditEmit(h.log, r, h.enqueuer, "user.login", "", false, err.Error())
		middleware.RecordAuthAttempt("login", false)
		switch {
		case errors.Is(err, domerrors.ErrInvalidCredentials):
			writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, err.Error())
		case errors.Is(err, domerrors.ErrAccountLocked):
			writeErr(w, http.StatusTooManyRequests, ErrCodeAccountLocked, err.Error())
		default:
			h.log.Error().Err(err).Msg("login failed")
			writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		}
		return
	}
	AuditEmit(h.log, r, h.enqueuer, "user.login", result.User.ID.String(), true, "")
	middleware.RecordAuthAttempt("login", true)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      result.Token,
		"expires_in": result.ExpiresIn,
		"user":       toPrincipalJSON(result.User),
	})
}

// ChangePassword handles PUT /users/me/password. Requires the auth gate.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}
	var body struct {
		CurrentPassword string `json:"current_password" validate:"required,max=128"`
		NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid password length")
		return
	}
	err := h.changePassword.Execute(r.Context(), auth.ChangePasswordInput{
		UserID:          userID,
		CurrentPassword: SanitizePassword(body.CurrentPassword),
		NewPassword:     SanitizePassword(body.NewPassword),
	})
	if err != nil {
		AuditEmit(h.log, r, h.enqueuer, "user.password_change", userID.String(), false, err.Error())
		middleware.RecordAuthAttempt("password_change", false)
		switch {
		case errors.Is(err, domerrors.ErrInvalidCredentials):
			writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, err.Error())
		case errors.Is(err, domerrors.ErrInvalidInput):
			writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		case errors.Is(err, domerrors.ErrUnauthenticated):
			writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
		default:
			h.log.Error().Err(err).Msg("change password failed")
			writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		}
		return
	}
	AuditEmit(h.log, r, h.enqueuer, "user.password_change", userID.String(), true, "")
	middleware.RecordAuthAttempt("password_change", true)
	w.WriteHeader(http.StatusNoContent)
}
