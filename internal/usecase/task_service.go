package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/pixegami/task-assist/internal/ai"
	"github.com/pixegami/task-assist/internal/entity"
	"github.com/pixegami/task-assist/internal/repository"
)

// RabbitMQPublisher интерфейс для публикации в RabbitMQ
type RabbitMQPublisher interface {
	PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error
}

// ModelGateway интерфейс для шлюза к языковой модели
type ModelGateway interface {
	Configured() bool
	CompleteLabel(ctx context.Context, prompt string) (string, error)
	CompleteJSON(ctx context.Context, prompt string) (string, error)
}

type TaskService struct {
	taskRepo repository.ITaskRepository
	userRepo repository.IUserRepository
	rabbitMQ RabbitMQPublisher
	gateway  ModelGateway
}

func NewTaskService(
	taskRepo repository.ITaskRepository,
	userRepo repository.IUserRepository,
	rabbitMQ RabbitMQPublisher,
	gateway ModelGateway,
) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		rabbitMQ: rabbitMQ,
		gateway:  gateway,
	}
}

// CreateWithAI создает задачу и best-effort вешает на нее метку от модели.
// Единственная ошибка, которая отсюда выходит - отказ вставки (или неизвестный
// пользователь): после успешного INSERT задача возвращается всегда,
// какой бы ни была судьба обогащения.
func (s *TaskService) CreateWithAI(ctx context.Context, req *entity.CreateTaskRequest, userID int) (*entity.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, entity.ErrInvalidTaskData
	}

	// 1. Проверяем что пользователь существует
	user, err := s.userRepo.GetById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, entity.ErrUserNotFound
	}

	// 2. Создаем задачу
	task, err := s.taskRepo.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	// 3. Асинхронно отправляем аудит
	s.sendAuditMessage(ctx, entity.ActionCreate, userID, task.ID, nil, task, nil)

	// 4. Пытаемся получить метку; задача уже создана, поэтому любая
	// неудача ниже только логируется
	return s.enrichWithLabel(ctx, task, userID), nil
}

// enrichWithLabel прогоняет задачу через модель и при валидной метке
// патчит ровно одно поле label. Возвращает всегда непустую задачу.
func (s *TaskService) enrichWithLabel(ctx context.Context, task *entity.Task, userID int) *entity.Task {
	if !s.gateway.Configured() {
		log.Printf("⚠️ OPENAI_API_KEY не задан, задача %s создана без метки", task.ID)
		return task
	}

	prompt := ai.BuildLabelPrompt(task.Title, task.Description)

	raw, err := s.gateway.CompleteLabel(ctx, prompt)
	if err != nil {
		log.Printf("❌ Не удалось получить метку для задачи %s: %v", task.ID, err)
		return task
	}

	label := ai.ExtractLabel(raw)
	if label == "" {
		log.Printf("⚠️ Ответ модели %q не содержит валидной метки, задача %s без метки", raw, task.ID)
		return task
	}

	updated, err := s.taskRepo.Update(ctx, task.ID, map[string]interface{}{"label": label})
	if err != nil {
		// Патч не прошел - возвращаем задачу как она была вставлена
		log.Printf("❌ Не удалось записать метку %q для задачи %s: %v", label, task.ID, err)
		return task
	}

	log.Printf("✅ Задача %s помечена меткой %q", task.ID, label)
	s.sendAuditMessage(ctx, entity.ActionUpdate, userID, task.ID, task, updated, map[string]interface{}{
		"label": map[string]interface{}{"old": nil, "new": label},
	})

	return updated
}

func (s *TaskService) GetTask(ctx context.Context, taskID string, userID int) (*entity.Task, error) {
	task, err := s.taskRepo.GetByTaskId(ctx, taskID)
	if err != nil {
		return nil, err
	}
	// Чужая задача выглядит как отсутствующая, а не как запрещенная
	if task == nil || task.UserID != userID {
		return nil, entity.ErrTaskNotFound
	}

	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, taskID string, userID int, req *entity.UpdateTaskRequest) (*entity.Task, error) {
	// 1. Получаем текущую задачу
	oldTask, err := s.taskRepo.GetByTaskId(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if oldTask == nil || oldTask.UserID != userID {
		return nil, entity.ErrTaskNotFound
	}

	// 2. Подготавливаем обновления
	updates := make(map[string]interface{})

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, entity.ErrInvalidTaskData
		}
		updates["title"] = *req.Title
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}

	if req.PriorityLevel != nil {
		if *req.PriorityLevel < 1 || *req.PriorityLevel > 5 {
			return nil, entity.ErrInvalidTaskData
		}
		updates["priority_level"] = *req.PriorityLevel
	}

	if req.Label != nil {
		if !entity.IsValidLabel(*req.Label) {
			return nil, entity.ErrInvalidLabel
		}
		updates["label"] = *req.Label
	}

	if len(updates) == 0 {
		return nil, entity.ErrNoFieldsToUpdate
	}

	// 3. Обновляем задачу
	updatedTask, err := s.taskRepo.Update(ctx, taskID, updates)
	if err != nil {
		return nil, err
	}

	// 4. Асинхронно отправляем аудит
	s.sendAuditMessage(ctx, entity.ActionUpdate, userID, taskID, oldTask, updatedTask, updates)

	return updatedTask, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID string, userID int) error {
	// 1. Получаем задачу (для аудита и проверки прав)
	task, err := s.taskRepo.GetByTaskId(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil || task.UserID != userID {
		return entity.ErrTaskNotFound
	}

	// 2. Удаляем задачу
	err = s.taskRepo.Delete(ctx, taskID)
	if err != nil {
		return err
	}

	// 3. Асинхронно отправляем аудит
	s.sendAuditMessage(ctx, entity.ActionDelete, userID, taskID, task, nil, nil)

	return nil
}

func (s *TaskService) ListTasks(ctx context.Context, userID int, completed *bool) ([]entity.Task, error) {
	return s.taskRepo.List(ctx, userID, completed)
}

// Вспомогательный метод для отправки аудита
func (s *TaskService) sendAuditMessage(
	ctx context.Context,
	action entity.ActionType,
	userID int,
	taskID string,
	oldTask *entity.Task,
	newTask *entity.Task,
	changes map[string]interface{},
) {
	auditMsg := &entity.AuditMessage{
		Action:    action,
		UserID:    userID,
		EntityID:  taskID,
		Changes:   changes,
		Timestamp: time.Now(),
	}

	if oldTask != nil {
		auditMsg.OldValues = taskValues(oldTask)
	}
	if newTask != nil {
		auditMsg.NewValues = taskValues(newTask)
	}

	// Асинхронная отправка в RabbitMQ
	go func() {
		if err := s.rabbitMQ.PublishAuditMessage(context.Background(), auditMsg); err != nil {
			log.Printf("❌ Ошибка отправки аудита в RabbitMQ: %v", err)
		}
	}()
}

func taskValues(task *entity.Task) map[string]interface{} {
	return map[string]interface{}{
		"title":          task.Title,
		"description":    task.Description,
		"completed":      task.Completed,
		"priority_level": task.PriorityLevel,
		"label":          task.Label,
		"user_id":        task.UserID,
	}
}
