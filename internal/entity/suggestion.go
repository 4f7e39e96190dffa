package entity

// TaskSuggestions - результат get-task-suggestions. Никогда не сохраняется,
// собирается заново на каждый запрос после санитизации ответа модели.
type TaskSuggestions struct {
	PriorityLevel     int      `json:"priorityLevel"`
	SuggestedSubtasks []string `json:"suggestedSubtasks"`
	Improvements      []string `json:"improvements"`
	EstimatedTime     string   `json:"estimatedTime"`
}
