package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/pixegami/task-assist/internal/entity"
	"github.com/pixegami/task-assist/internal/infrastructure/client"
	"github.com/pixegami/task-assist/internal/repository"
)

// AuditWorker читает события задач из RabbitMQ и складывает их в task_audit
type AuditWorker struct {
	rabbitMQ  *client.RabbitMQClient
	auditRepo repository.ITaskAuditRepository
}

func NewAuditWorker(rabbitMQ *client.RabbitMQClient, auditRepo repository.ITaskAuditRepository) *AuditWorker {
	return &AuditWorker{
		rabbitMQ:  rabbitMQ,
		auditRepo: auditRepo,
	}
}

func (w *AuditWorker) Start(ctx context.Context) {
	msgs, err := w.rabbitMQ.Consume("audit_worker")
	if err != nil {
		log.Printf("❌ Ошибка создания consumer: %v", err)
		return
	}

	fmt.Println("✅ Audit Worker запущен. Ожидаем сообщения...")

	// Обрабатываем сообщения
	for {
		select {
		case <-ctx.Done():
			fmt.Println("🛑 Audit Worker остановлен")
			return
		case msg, ok := <-msgs:
			if !ok {
				fmt.Println("📨 Канал сообщений закрыт")
				return
			}
			w.processMessage(msg)
		}
	}
}

func (w *AuditWorker) processMessage(msg amqp.Delivery) {
	ctx := context.Background()

	// 1. Парсим сообщение
	var auditMsg entity.AuditMessage
	if err := json.Unmarshal(msg.Body, &auditMsg); err != nil {
		log.Printf("❌ Ошибка парсинга сообщения: %v", err)
		msg.Nack(false, false) // Не возвращаем в очередь
		return
	}

	// 2. Конвертируем в TaskAudit
	taskAudit, err := convertToTaskAudit(&auditMsg)
	if err != nil {
		log.Printf("❌ Ошибка конвертации: %v", err)
		msg.Nack(false, true) // Возвращаем в очередь для повторной обработки
		return
	}

	// 3. Сохраняем в БД
	if err := w.auditRepo.Create(ctx, taskAudit); err != nil {
		log.Printf("❌ Ошибка сохранения аудита: %v", err)
		msg.Nack(false, true) // Возвращаем в очередь для повторной обработки
		return
	}

	// 4. Подтверждаем обработку
	msg.Ack(false)
	log.Printf("✅ Аудит сохранен: %s задача ID=%s", taskAudit.Action, taskAudit.EntityID)
}

func convertToTaskAudit(msg *entity.AuditMessage) (*entity.TaskAudit, error) {
	// Конвертируем map[string]any в JSON строки
	var oldValuesJSON, newValuesJSON, changesJSON *string

	if msg.OldValues != nil {
		oldJSON, err := json.Marshal(msg.OldValues)
		if err != nil {
			return nil, err
		}
		oldStr := string(oldJSON)
		oldValuesJSON = &oldStr
	}

	if msg.NewValues != nil {
		newJSON, err := json.Marshal(msg.NewValues)
		if err != nil {
			return nil, err
		}
		newStr := string(newJSON)
		newValuesJSON = &newStr
	}

	if msg.Changes != nil {
		chJSON, err := json.Marshal(msg.Changes)
		if err != nil {
			return nil, err
		}
		chStr := string(chJSON)
		changesJSON = &chStr
	}

	return &entity.TaskAudit{
		UserID:     msg.UserID,
		Action:     msg.Action,
		EntityType: "task",
		EntityID:   msg.EntityID,
		OldValues:  oldValuesJSON,
		NewValues:  newValuesJSON,
		Changes:    changesJSON,
		ChangedAt:  msg.Timestamp,
	}, nil
}
