package entity

import "time"

type Task struct {
	ID            string    `json:"task_id"`
	UserID        int       `json:"user_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Completed     bool      `json:"completed"`
	PriorityLevel *int      `json:"priority_level"`
	Label         *string   `json:"label"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateTaskRequest - тело запроса create-task-with-ai
type CreateTaskRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	PriorityLevel *int   `json:"priority_level"`
}

// UpdateTaskRequest - частичное обновление, nil означает «поле не трогаем»
type UpdateTaskRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Completed     *bool   `json:"completed"`
	PriorityLevel *int    `json:"priority_level"`
	Label         *string `json:"label"`
}

// SuggestionRequest - тело запроса get-task-suggestions
type SuggestionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
