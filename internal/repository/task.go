package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pixegami/task-assist/internal/entity"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

func (r *TaskRepository) Create(ctx context.Context, userID int, task *entity.CreateTaskRequest) (*entity.Task, error) {

	query := `
	INSERT INTO task (task_id, user_id, title, description, completed, priority_level)
	VALUES ($1, $2, $3, $4, FALSE, $5)
	RETURNING task_id, user_id, title, description, completed, priority_level, label, created_at, updated_at
	`

	var createdTask entity.Task
	err := r.db.QueryRow(ctx, query,
		uuid.New().String(),
		userID,
		task.Title,
		task.Description,
		task.PriorityLevel,
	).Scan(
		&createdTask.ID,
		&createdTask.UserID,
		&createdTask.Title,
		&createdTask.Description,
		&createdTask.Completed,
		&createdTask.PriorityLevel,
		&createdTask.Label,
		&createdTask.CreatedAt,
		&createdTask.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &createdTask, nil
}

func (r *TaskRepository) GetByTaskId(ctx context.Context, taskId string) (*entity.Task, error) {

	query := `
	SELECT task_id, user_id, title, description, completed, priority_level, label, created_at, updated_at
	FROM task
	WHERE task_id = $1
	`
	var task entity.Task

	err := r.db.QueryRow(ctx, query, taskId).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.PriorityLevel,
		&task.Label,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &task, nil
}

// Update - обновление задачи
func (r *TaskRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*entity.Task, error) {
	// Динамически строим SET часть запроса
	setClause := ""
	args := []interface{}{}
	argIndex := 1

	for field, value := range updates {
		if field == "updated_at" {
			continue // не обновляем вручную
		}
		if argIndex > 1 {
			setClause += ", "
		}
		setClause += field + " = $" + strconv.Itoa(argIndex)
		args = append(args, value)
		argIndex++
	}

	// Добавляем обновление updated_at
	if argIndex > 1 {
		setClause += ", updated_at = CURRENT_TIMESTAMP"
	}

	query := `
        UPDATE task
        SET ` + setClause + `
        WHERE task_id = $` + strconv.Itoa(argIndex) + `
        RETURNING task_id, user_id, title, description, completed, priority_level, label, created_at, updated_at
    `
	args = append(args, id)

	var task entity.Task
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.PriorityLevel,
		&task.Label,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &task, nil
}

// Delete - удаление задачи
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM task WHERE task_id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// List - список задач владельца с фильтром по completed
func (r *TaskRepository) List(ctx context.Context, ownerID int, completed *bool) ([]entity.Task, error) {
	query := `
        SELECT task_id, user_id, title, description, completed, priority_level, label, created_at, updated_at
        FROM task
        WHERE user_id = $1
    `
	args := []interface{}{ownerID}

	if completed != nil {
		query += " AND completed = $2"
		args = append(args, *completed)
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []entity.Task
	for rows.Next() {
		var task entity.Task
		err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Description,
			&task.Completed,
			&task.PriorityLevel,
			&task.Label,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}
