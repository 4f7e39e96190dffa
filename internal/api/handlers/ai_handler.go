package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pixegami/task-assist/internal/ai"
	"github.com/pixegami/task-assist/internal/entity"
	"github.com/pixegami/task-assist/internal/infrastructure/auth"
	"github.com/pixegami/task-assist/internal/usecase"
)

// AIHandler обслуживает create-task-with-ai и get-task-suggestions.
// Оба эндпоинта, как и исходные edge-функции, проверяют токен сами и
// сворачивают ошибки авторизации в 400 с JSON-телом {"error": ...}.
type AIHandler struct {
	taskService      *usecase.TaskService
	assistantService *usecase.AssistantService
	jwtManager       *auth.JWTManager
}

func NewAIHandler(
	taskService *usecase.TaskService,
	assistantService *usecase.AssistantService,
	jwtManager *auth.JWTManager,
) *AIHandler {
	return &AIHandler{
		taskService:      taskService,
		assistantService: assistantService,
		jwtManager:       jwtManager,
	}
}

// Options отвечает на preflight без тела
func (h *AIHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// CreateTaskWithAI - создание задачи с best-effort меткой от модели
func (h *AIHandler) CreateTaskWithAI(w http.ResponseWriter, r *http.Request) {
	userID, err := h.authorize(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req entity.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	task, err := h.taskService.CreateWithAI(r.Context(), &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidTaskData):
			writeError(w, http.StatusBadRequest, "Task title is required")
		case errors.Is(err, entity.ErrUserNotFound):
			writeError(w, http.StatusBadRequest, "No user found")
		default:
			writeError(w, http.StatusBadRequest, "failed to create task")
		}
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// GetTaskSuggestions - структурированные подсказки, без персистентности
func (h *AIHandler) GetTaskSuggestions(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authorize(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req entity.SuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	suggestions, err := h.assistantService.Suggest(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidTaskData):
			writeError(w, http.StatusBadRequest, "Task title is required")
		case errors.Is(err, ai.ErrNotConfigured):
			// Здесь нет fallback-значения, поэтому отсутствие ключа
			// отдаем наружу отдельным статусом
			writeError(w, http.StatusInternalServerError,
				"OpenAI API key is not configured. Please set OPENAI_API_KEY secret.")
		case errors.Is(err, ai.ErrMalformedSuggestions):
			writeError(w, http.StatusBadRequest, "Failed to parse AI suggestions")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, suggestions)
}

// authorize разбирает Bearer токен запроса
func (h *AIHandler) authorize(r *http.Request) (int, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return 0, errors.New("No authorization header")
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")
	claims, err := h.jwtManager.ValidateAccessToken(tokenString)
	if err != nil {
		return 0, errors.New("No user found")
	}

	return claims.UserID, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
