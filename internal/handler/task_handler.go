package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-task-manager/internal/middleware"
	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

type TaskHandler struct {
	service taskService
}

func NewTaskHandler(service taskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	scope, _ := middleware.ScopeFromContext(r.Context())

	filter, err := parseTaskFilter(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	tasks, err := h.service.List(r.Context(), id, scope, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	writeSuccess(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"task": task})
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var payload model.CreateTaskRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.service.Create(r.Context(), id.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"task": task})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var payload model.UpdateTaskRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.service.Update(r.Context(), id.UserID, chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"task": task})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	task, err := h.service.Delete(r.Context(), id.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"task": task})
}

func parseTaskFilter(q url.Values) (model.TaskFilter, error) {
	var filter model.TaskFilter

	if v := strings.TrimSpace(q.Get("status")); v != "" {
		status := model.TaskStatus(v)
		filter.Status = &status
	}
	if v := strings.TrimSpace(q.Get("priority")); v != "" {
		priority := model.TaskPriority(v)
		filter.Priority = &priority
	}
	if v := strings.TrimSpace(q.Get("assignedTo")); v != "" {
		filter.AssignedTo = &v
	}
	if v := strings.TrimSpace(q.Get("deleted")); v != "" {
		deleted, err := strconv.ParseBool(v)
		if err != nil {
			return model.TaskFilter{}, apierror.Validation("Invalid deleted filter", v)
		}
		filter.Deleted = &deleted
	}

	filter.SortBy = strings.TrimSpace(q.Get("sortBy"))
	switch strings.ToLower(strings.TrimSpace(q.Get("order"))) {
	case "", "asc":
	case "desc":
		filter.Desc = true
	default:
		return model.TaskFilter{}, apierror.Validation("Invalid order: must be asc or desc", q.Get("order"))
	}

	return filter, nil
}
