package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/pixegami/task-assist/internal/ai"
	"github.com/pixegami/task-assist/internal/entity"
)

// AssistantService отвечает за get-task-suggestions. В отличие от
// обогащения меток тут нечем откупиться - fallback-значения нет, поэтому
// ошибки шлюза уходят вызывающему как есть.
type AssistantService struct {
	gateway ModelGateway
}

func NewAssistantService(gateway ModelGateway) *AssistantService {
	return &AssistantService{
		gateway: gateway,
	}
}

// Suggest строит промпт, один раз дергает модель в JSON-режиме и
// возвращает санитизированные подсказки. Ничего не сохраняет.
func (s *AssistantService) Suggest(ctx context.Context, req *entity.SuggestionRequest) (*entity.TaskSuggestions, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, entity.ErrInvalidTaskData
	}

	if !s.gateway.Configured() {
		return nil, ai.ErrNotConfigured
	}

	prompt := ai.BuildSuggestionPrompt(req.Title, req.Description)

	raw, err := s.gateway.CompleteJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	suggestions, err := ai.SanitizeSuggestions(raw)
	if err != nil {
		log.Printf("❌ Модель вернула нечитаемый JSON: %v", err)
		return nil, err
	}

	return suggestions, nil
}
