package ai

import "fmt"

// BuildLabelPrompt - промпт для выбора одной метки из закрытого списка.
// Заголовок и описание вставляются как есть, без обрезки.
func BuildLabelPrompt(title, description string) string {
	return fmt.Sprintf(
		`Based on this task title: "%s" and description: "%s", suggest ONE of these labels: work, personal, priority, shopping, home. Reply with just the label word and nothing else.`,
		title, description)
}

// BuildSuggestionPrompt - промпт для структурированных подсказок по задаче.
// Модель обязана вернуть один JSON-объект фиксированной формы.
func BuildSuggestionPrompt(title, description string) string {
	if description == "" {
		description = "No description provided"
	}

	return fmt.Sprintf(`Analyze the following task and provide suggestions in JSON format:

Task Title: "%s"
Task Description: "%s"

Provide your analysis as a JSON object with the following structure:
{
  "priorityLevel": <number between 1-5, where 1 is lowest and 5 is highest>,
  "suggestedSubtasks": [<array of 2-4 specific actionable subtasks as strings>],
  "improvements": [<array of 2-3 suggestions to improve the task description or approach as strings>],
  "estimatedTime": "<estimated time to complete (e.g., '30 minutes', '2 hours', '1 day')>"
}

Consider:
- Priority level based on urgency and importance
- Break down the task into specific, actionable subtasks
- Suggest improvements for clarity, efficiency, or completeness
- Provide a realistic time estimate

Return ONLY valid JSON, no additional text.`, title, description)
}
