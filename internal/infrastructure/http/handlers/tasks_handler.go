package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/taskward/taskward/internal/application/tasks"
	"github.com/taskward/taskward/internal/domain"
	domerrors "github.com/taskward/taskward/internal/domain/errors"
	"github.com/taskward/taskward/internal/infrastructure/http/middleware"
)

const defaultListLimit = 20
const maxListLimit = 100

// TasksHandler serves /tasks/*. Requires the auth gate; every call is
// scoped to the principal on the request context. An ownership
// mismatch is reported as not_found, identical to a missing id.
type TasksHandler struct {
	svc      *tasks.Service
	validate *validator.Validate
	log      zerolog.Logger
}

func NewTasksHandler(svc *tasks.Service, log zerolog.Logger) *TasksHandler {
	return &TasksHandler{svc: svc, validate: validator.New(), log: log}
}

type taskJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Notes     string `json:"notes"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toTaskJSON(t *domain.Task) taskJSON {
	return taskJSON{
		ID:        t.ID.String(),
		Title:     t.Title,
		Notes:     t.Notes,
		Done:      t.Done,
		CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: t.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *TasksHandler) principal(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	userID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
	}
	return userID, ok
}

// taskID parses the {id} URL parameter. A non-UUID id cannot name any
// task, so it gets the same not_found as an unknown one.
func (h *TasksHandler) taskID(w http.ResponseWriter, r *http.Request) (domain.TaskID, bool) {
	id, err := domain.ParseTaskID(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, domerrors.ErrNotFound.Error())
		return domain.TaskID{}, false
	}
	return id, true
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}
	var body struct {
		Title string `json:"title" validate:"required,max=500"`
		Notes string `json:"notes" validate:"max=10000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid title")
		return
	}
	task, err := h.svc.Create(r.Context(), userID, tasks.CreateInput{Title: body.Title, Notes: body.Notes})
	if err != nil {
		h.writeTaskErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskJSON(task))
}

func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}
	limit := defaultListLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
			if limit > maxListLimit {
				limit = maxListLimit
			}
		}
	}
	offset := 0
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}
	list, err := h.svc.List(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeTaskErr(w, err)
		return
	}
	items := make([]taskJSON, 0, len(list))
	for _, t := range list {
		items = append(items, toTaskJSON(t))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": items})
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}
	task, err := h.svc.Get(r.Context(), userID, taskID)
	if err != nil {
		h.writeTaskErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskJSON(task))
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}
	var body struct {
		Title *string `json:"title"`
		Notes *string `json:"notes"`
		Done  *bool   `json:"done"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid body")
		return
	}
	task, err := h.svc.Update(r.Context(), userID, taskID, tasks.UpdateInput{
		Title: body.Title,
		Notes: body.Notes,
		Done:  body.Done,
	})
	if err != nil {
		h.writeTaskErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskJSON(task))
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), userID, taskID); err != nil {
		h.writeTaskErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TasksHandler) writeTaskErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domerrors.ErrNotFound):
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, domerrors.ErrNotFound.Error())
	case errors.Is(err, domerrors.ErrInvalidInput):
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, domerrors.ErrInvalidInput.Error())
	default:
		h.log.Error().Err(err).Msg("task operation failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}
