package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"

	appauth "github.com/taskward/taskward/internal/application/auth"
	"github.com/taskward/taskward/internal/application/tasks"
	infraauth "github.com/taskward/taskward/internal/infrastructure/auth"
	"github.com/taskward/taskward/internal/infrastructure/http/handlers"
	"github.com/taskward/taskward/internal/infrastructure/http/middleware"
	"github.com/taskward/taskward/internal/infrastructure/persistence/memory"
	"github.com/taskward/taskward/internal/infrastructure/queue"
	"github.com/taskward/taskward/internal/infrastructure/security"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := zerolog.Nop()

	users := memory.NewUserRepository()
	taskRepo := memory.NewTaskRepository()
	hasher := security.NewArgon2Hasher(security.Argon2Params{
		Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})
	issuer, err := infraauth.NewTokenIssuer([]byte("router-test-secret"), "taskward", time.Hour, log)
	require.NoError(t, err)

	loginUC, err := appauth.NewLogin(users, hasher, issuer, nil)
	require.NoError(t, err)

	return NewRouter(RouterConfig{
		AuthHandler: handlers.NewAuthHandler(
			appauth.NewRegister(users, hasher, issuer),
			loginUC,
			appauth.NewChangePassword(users, hasher),
			queue.NewNoopEnqueuer(),
			log,
		),
		UsersHandler: handlers.NewUsersHandler(users),
		TasksHandler: handlers.NewTasksHandler(tasks.NewService(taskRepo), log),
		RequireAuth:  middleware.NewAuthValidator(issuer).Handler,
		Log:          log,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, h http.Handler, email, password string) (token, userID string) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User.ID
}

func TestRegisterAndLoginFlow(t *testing.T) {
	router := newTestRouter(t)

	apitest.Handler(router).
		Post("/auth/register").
		JSON(`{"email":"ada@example.com","password":"correct horse"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Present("$.token")).
		Assert(jsonpath.Equal("$.user.email", "ada@example.com")).
		End()

	// Same email again, regardless of case.
	apitest.Handler(router).
		Post("/auth/register").
		JSON(`{"email":"ADA@example.com","password":"other password"}`).
		Expect(t).
		Status(http.StatusConflict).
		Assert(jsonpath.Equal("$.code", "conflict")).
		End()

	apitest.Handler(router).
		Post("/auth/login").
		JSON(`{"email":"ada@example.com","password":"correct horse"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Present("$.token")).
		Assert(jsonpath.Present("$.expires_in")).
		End()
}

func TestLoginFailuresAreUniform(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "ada@example.com", "correct horse")

	wrongPassword := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong",
	})
	unknownEmail := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "wrong",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	require.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	router := newTestRouter(t)

	apitest.Handler(router).
		Get("/tasks/").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.code", "missing_credential")).
		End()

	apitest.Handler(router).
		Get("/tasks/").
		Header("Authorization", "Bearer not-a-token").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.code", "unauthorized")).
		End()

	apitest.Handler(router).
		Get("/users/me").
		Header("Authorization", "Basic YWRhOnNlY3JldA==").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.code", "missing_credential")).
		End()
}

func TestTaskLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token, _ := registerUser(t, router, "ada@example.com", "correct horse")

	rec := doJSON(t, router, http.MethodPost, "/tasks/", token, map[string]string{
		"title": "write report", "notes": "due friday",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Done  bool   `json:"done"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "write report", created.Title)
	require.False(t, created.Done)

	rec = doJSON(t, router, http.MethodGet, "/tasks/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/tasks/"+created.ID, token, map[string]interface{}{
		"done": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated struct {
		Title string `json:"title"`
		Done  bool   `json:"done"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.True(t, updated.Done)
	require.Equal(t, "write report", updated.Title)

	rec = doJSON(t, router, http.MethodGet, "/tasks/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Tasks []struct {
			ID string `json:"id"`
		} `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Tasks, 1)

	rec = doJSON(t, router, http.MethodDelete, "/tasks/"+created.ID, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/tasks/"+created.ID, token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestForeignTaskLooksAbsent(t *testing.T) {
	router := newTestRouter(t)
	ownerToken, _ := registerUser(t, router, "owner@example.com", "correct horse")
	otherToken, _ := registerUser(t, router, "other@example.com", "correct horse")

	rec := doJSON(t, router, http.MethodPost, "/tasks/", ownerToken, map[string]string{
		"title": "private task",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// The foreign task and a genuinely unknown id must be
	// indistinguishable in status and body.
	foreign := doJSON(t, router, http.MethodGet, "/tasks/"+created.ID, otherToken, nil)
	unknown := doJSON(t, router, http.MethodGet, "/tasks/00000000-0000-0000-0000-000000000000", otherToken, nil)
	require.Equal(t, http.StatusNotFound, foreign.Code)
	require.Equal(t, http.StatusNotFound, unknown.Code)
	require.JSONEq(t, foreign.Body.String(), unknown.Body.String())

	rec = doJSON(t, router, http.MethodPatch, "/tasks/"+created.ID, otherToken, map[string]interface{}{"done": true})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/tasks/"+created.ID, otherToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Untouched for the owner.
	rec = doJSON(t, router, http.MethodGet, "/tasks/"+created.ID, ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// And the other account's list stays empty.
	rec = doJSON(t, router, http.MethodGet, "/tasks/", otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Tasks []struct{} `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Empty(t, list.Tasks)
}

func TestMeAndPasswordChange(t *testing.T) {
	router := newTestRouter(t)
	token, userID := registerUser(t, router, "ada@example.com", "correct horse")

	apitest.Handler(router).
		Get("/users/me").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.id", userID)).
		Assert(jsonpath.Equal("$.email", "ada@example.com")).
		End()

	rec := doJSON(t, router, http.MethodPut, "/users/me/password", token, map[string]string{
		"current_password": "wrong",
		"new_password":     "brand new pass",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/users/me/password", token, map[string]string{
		"current_password": "correct horse",
		"new_password":     "brand new pass",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "correct horse",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "brand new pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthFallback(t *testing.T) {
	router := newTestRouter(t)
	apitest.Handler(router).
		Get("/health").
		Expect(t).
		Status(http.StatusOK).
		End()
}
