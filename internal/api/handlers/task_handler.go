package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pixegami/task-assist/internal/api"
	"github.com/pixegami/task-assist/internal/entity"
	"github.com/pixegami/task-assist/internal/usecase"
)

type TaskHandler struct {
	taskService *usecase.TaskService
}

func NewTaskHandler(taskService *usecase.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskId := chi.URLParam(r, "id")

	userId, ok := api.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	task, err := h.taskService.GetTask(r.Context(), taskId, userId)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrTaskNotFound):
			http.Error(w, "task not found", http.StatusNotFound)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskId := chi.URLParam(r, "id")

	userId, ok := api.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	var req entity.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), taskId, userId, &req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrTaskNotFound):
			http.Error(w, "task not found", http.StatusNotFound)
		case errors.Is(err, entity.ErrNoFieldsToUpdate):
			http.Error(w, "no fields to update", http.StatusBadRequest)
		case errors.Is(err, entity.ErrInvalidTaskData):
			http.Error(w, "invalid task data", http.StatusBadRequest)
		case errors.Is(err, entity.ErrInvalidLabel):
			http.Error(w, "label is not in the valid list", http.StatusBadRequest)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskId := chi.URLParam(r, "id")

	userId, ok := api.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	err := h.taskService.DeleteTask(r.Context(), taskId, userId)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrTaskNotFound):
			http.Error(w, "task not found", http.StatusNotFound)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userId, ok := api.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	// Опциональный фильтр ?completed=true|false
	var completed *bool
	if raw := r.URL.Query().Get("completed"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "invalid completed filter", http.StatusBadRequest)
			return
		}
		completed = &parsed
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userId, completed)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}
