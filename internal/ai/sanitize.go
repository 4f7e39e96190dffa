package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/pixegami/task-assist/internal/entity"
)

// ExtractLabel вытаскивает метку из сырого ответа модели. Сначала чистим
// текст, потом ищем метку как подстроку в порядке entity.ValidLabels,
// потом пробуем точное совпадение. Пустая строка - метки нет.
//
// Поиск по подстроке намеренный: модель любит заворачивать метку в лишние
// слова ("the label is work"), и так мы вытаскиваем максимум. Цена -
// редкие ложные срабатывания вида "workshop" -> "work".
func ExtractLabel(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))

	// Срезаем небуквенные символы по краям
	cleaned = strings.TrimFunc(cleaned, func(r rune) bool {
		return r < 'a' || r > 'z'
	})

	// Схлопываем внутренние пробелы
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	for _, label := range entity.ValidLabels {
		if strings.Contains(cleaned, label) {
			return label
		}
	}

	if entity.IsValidLabel(cleaned) {
		return cleaned
	}

	return ""
}

// SanitizeSuggestions разбирает сырой JSON модели и приводит каждое поле
// к жесткой форме. Единственная ошибка, которая отсюда выходит - нечитаемый
// JSON; все остальное чинится дефолтами и clamp'ом.
func SanitizeSuggestions(raw string) (*entity.TaskSuggestions, error) {
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSuggestions, err)
	}

	result := &entity.TaskSuggestions{
		PriorityLevel:     3,
		SuggestedSubtasks: []string{},
		Improvements:      []string{},
		EstimatedTime:     "Unknown",
	}

	if rawPriority, ok := parsed["priorityLevel"]; ok {
		var priority float64
		if err := json.Unmarshal(rawPriority, &priority); err == nil {
			result.PriorityLevel = clampPriority(priority)
		}
	}

	if rawSubtasks, ok := parsed["suggestedSubtasks"]; ok {
		var subtasks []string
		if err := json.Unmarshal(rawSubtasks, &subtasks); err == nil && subtasks != nil {
			result.SuggestedSubtasks = subtasks
		}
	}

	if rawImprovements, ok := parsed["improvements"]; ok {
		var improvements []string
		if err := json.Unmarshal(rawImprovements, &improvements); err == nil && improvements != nil {
			result.Improvements = improvements
		}
	}

	if rawTime, ok := parsed["estimatedTime"]; ok {
		var estimated string
		if err := json.Unmarshal(rawTime, &estimated); err == nil && estimated != "" {
			result.EstimatedTime = estimated
		}
	}

	return result, nil
}

// clampPriority округляет и зажимает приоритет в [1, 5]
func clampPriority(value float64) int {
	p := int(math.Round(value))
	if p < 1 {
		return 1
	}
	if p > 5 {
		return 5
	}
	return p
}
