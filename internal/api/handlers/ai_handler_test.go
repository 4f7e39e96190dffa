package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pixegami/task-assist/internal/entity"
	infraauth "github.com/pixegami/task-assist/internal/infrastructure/auth"
	"github.com/pixegami/task-assist/internal/repository"
	"github.com/pixegami/task-assist/internal/usecase"
)

const testSecret = "test-secret"

// MockTaskRepository - мок для ITaskRepository
type MockTaskRepository struct {
	CreateFunc func(ctx context.Context, userID int, task *entity.CreateTaskRequest) (*entity.Task, error)
	UpdateFunc func(ctx context.Context, id string, updates map[string]interface{}) (*entity.Task, error)
}

var _ repository.ITaskRepository = (*MockTaskRepository)(nil)

func (m *MockTaskRepository) Create(ctx context.Context, userID int, task *entity.CreateTaskRequest) (*entity.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, task)
	}
	return &entity.Task{ID: "t-1", UserID: userID, Title: task.Title, Description: task.Description}, nil
}

func (m *MockTaskRepository) GetByTaskId(ctx context.Context, taskId string) (*entity.Task, error) {
	return nil, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*entity.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, updates)
	}
	return nil, nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *MockTaskRepository) List(ctx context.Context, ownerID int, completed *bool) ([]entity.Task, error) {
	return nil, nil
}

// MockUserRepository - мок для IUserRepository; пользователь 1 существует
type MockUserRepository struct{}

var _ repository.IUserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) CreateWithAuth(ctx context.Context, name, email, passwordHash string) (*entity.User, error) {
	return nil, nil
}

func (m *MockUserRepository) GetById(ctx context.Context, id int) (*entity.User, error) {
	return &entity.User{ID: id, Name: "Test User"}, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, nil
}

func (m *MockUserRepository) Update(ctx context.Context, id int, updates map[string]interface{}) (*entity.User, error) {
	return nil, nil
}

type MockPublisher struct{}

func (m *MockPublisher) PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error {
	return nil
}

// MockGateway - мок для ModelGateway
type MockGateway struct {
	ConfiguredValue   bool
	CompleteLabelFunc func(ctx context.Context, prompt string) (string, error)
	CompleteJSONFunc  func(ctx context.Context, prompt string) (string, error)
}

var _ usecase.ModelGateway = (*MockGateway)(nil)

func (m *MockGateway) Configured() bool {
	return m.ConfiguredValue
}

func (m *MockGateway) CompleteLabel(ctx context.Context, prompt string) (string, error) {
	if m.CompleteLabelFunc != nil {
		return m.CompleteLabelFunc(ctx, prompt)
	}
	return "", nil
}

func (m *MockGateway) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	if m.CompleteJSONFunc != nil {
		return m.CompleteJSONFunc(ctx, prompt)
	}
	return "", nil
}

func newTestHandler(gateway *MockGateway) (*AIHandler, string) {
	jwtManager := infraauth.NewJWTManager(testSecret)

	taskService := usecase.NewTaskService(&MockTaskRepository{}, &MockUserRepository{}, &MockPublisher{}, gateway)
	assistantService := usecase.NewAssistantService(gateway)

	token, _ := jwtManager.GenerateAccessToken(1, "bob@example.com")

	return NewAIHandler(taskService, assistantService, jwtManager), token
}

func TestCreateTaskWithAIMissingAuthHeader(t *testing.T) {
	handler, _ := newTestHandler(&MockGateway{})

	req := httptest.NewRequest(http.MethodPost, "/create-task-with-ai", strings.NewReader(`{"title":"Test"}`))
	rec := httptest.NewRecorder()

	handler.CreateTaskWithAI(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Expected JSON error body: %v", err)
	}
	if body["error"] != "No authorization header" {
		t.Errorf("Expected auth error message, got %q", body["error"])
	}
}

func TestCreateTaskWithAIInvalidToken(t *testing.T) {
	handler, _ := newTestHandler(&MockGateway{})

	req := httptest.NewRequest(http.MethodPost, "/create-task-with-ai", strings.NewReader(`{"title":"Test"}`))
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	handler.CreateTaskWithAI(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestCreateTaskWithAIWithoutProviderKey(t *testing.T) {
	handler, token := newTestHandler(&MockGateway{ConfiguredValue: false})

	req := httptest.NewRequest(http.MethodPost, "/create-task-with-ai",
		strings.NewReader(`{"title":"Buy milk","description":"2 liters"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.CreateTaskWithAI(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var task entity.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("Expected task JSON: %v", err)
	}
	if task.Title != "Buy milk" {
		t.Errorf("Expected title Buy milk, got %q", task.Title)
	}
	if task.Label != nil {
		t.Errorf("Expected no label, got %v", *task.Label)
	}
}

func TestCreateTaskWithAIWithLabel(t *testing.T) {
	label := "shopping"
	gateway := &MockGateway{
		ConfiguredValue: true,
		CompleteLabelFunc: func(ctx context.Context, prompt string) (string, error) {
			return "Shopping.", nil
		},
	}

	jwtManager := infraauth.NewJWTManager(testSecret)
	taskRepo := &MockTaskRepository{
		UpdateFunc: func(ctx context.Context, id string, updates map[string]interface{}) (*entity.Task, error) {
			return &entity.Task{ID: id, UserID: 1, Title: "Buy milk", Label: &label}, nil
		},
	}
	taskService := usecase.NewTaskService(taskRepo, &MockUserRepository{}, &MockPublisher{}, gateway)
	handler := NewAIHandler(taskService, usecase.NewAssistantService(gateway), jwtManager)
	token, _ := jwtManager.GenerateAccessToken(1, "bob@example.com")

	req := httptest.NewRequest(http.MethodPost, "/create-task-with-ai", strings.NewReader(`{"title":"Buy milk"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.CreateTaskWithAI(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var task entity.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("Expected task JSON: %v", err)
	}
	if task.Label == nil || *task.Label != "shopping" {
		t.Errorf("Expected label shopping, got %v", task.Label)
	}
}

func TestGetTaskSuggestionsWithoutProviderKey(t *testing.T) {
	handler, token := newTestHandler(&MockGateway{ConfiguredValue: false})

	req := httptest.NewRequest(http.MethodPost, "/get-task-suggestions", strings.NewReader(`{"title":"Test"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.GetTaskSuggestions(rec, req)

	// Тут fallback-значения нет, поэтому отсутствие ключа - это 500
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
}

func TestGetTaskSuggestionsMissingTitle(t *testing.T) {
	handler, token := newTestHandler(&MockGateway{ConfiguredValue: true})

	req := httptest.NewRequest(http.MethodPost, "/get-task-suggestions", strings.NewReader(`{"description":"no title"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.GetTaskSuggestions(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestGetTaskSuggestionsMalformedModelResponse(t *testing.T) {
	gateway := &MockGateway{
		ConfiguredValue: true,
		CompleteJSONFunc: func(ctx context.Context, prompt string) (string, error) {
			return "not json at all", nil
		},
	}
	handler, token := newTestHandler(gateway)

	req := httptest.NewRequest(http.MethodPost, "/get-task-suggestions", strings.NewReader(`{"title":"Test"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.GetTaskSuggestions(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Failed to parse AI suggestions" {
		t.Errorf("Expected parse error message, got %q", body["error"])
	}
}

func TestGetTaskSuggestionsSuccess(t *testing.T) {
	gateway := &MockGateway{
		ConfiguredValue: true,
		CompleteJSONFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{"priorityLevel": 7.8, "suggestedSubtasks": ["a"], "improvements": [], "estimatedTime": "1 day"}`, nil
		},
	}
	handler, token := newTestHandler(gateway)

	req := httptest.NewRequest(http.MethodPost, "/get-task-suggestions", strings.NewReader(`{"title":"Test"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.GetTaskSuggestions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var suggestions entity.TaskSuggestions
	if err := json.Unmarshal(rec.Body.Bytes(), &suggestions); err != nil {
		t.Fatalf("Expected suggestions JSON: %v", err)
	}
	if suggestions.PriorityLevel != 5 {
		t.Errorf("Expected clamped priority 5, got %d", suggestions.PriorityLevel)
	}
	if suggestions.EstimatedTime != "1 day" {
		t.Errorf("Expected 1 day, got %q", suggestions.EstimatedTime)
	}
}

func TestOptionsReturnsNoContent(t *testing.T) {
	handler, _ := newTestHandler(&MockGateway{})

	req := httptest.NewRequest(http.MethodOptions, "/create-task-with-ai", nil)
	rec := httptest.NewRecorder()

	handler.Options(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", rec.Body.String())
	}
}
