package repository

import (
	"context"
	"time"

	"github.com/pixegami/task-assist/internal/entity"
)

// ITaskRepository - интерфейс для TaskRepository
type ITaskRepository interface {
	Create(ctx context.Context, userID int, task *entity.CreateTaskRequest) (*entity.Task, error)
	GetByTaskId(ctx context.Context, taskId string) (*entity.Task, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*entity.Task, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, ownerID int, completed *bool) ([]entity.Task, error)
}

// IUserRepository - интерфейс для UserRepository
type IUserRepository interface {
	CreateWithAuth(ctx context.Context, name, email, passwordHash string) (*entity.User, error)
	GetById(ctx context.Context, id int) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, id int, updates map[string]interface{}) (*entity.User, error)
}

// IRefreshTokenRepository - интерфейс для RefreshTokenRepository
type IRefreshTokenRepository interface {
	Save(ctx context.Context, userID int, tokenHash string, expiresAt time.Time) error
	GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAll(ctx context.Context, userID int) error
}

// ITaskAuditRepository - интерфейс для TaskAuditRepository
type ITaskAuditRepository interface {
	Create(ctx context.Context, audit *entity.TaskAudit) error
	GetByTaskId(ctx context.Context, taskId string) ([]entity.TaskAudit, error)
}
