package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/pixegami/task-assist/internal/ai"
	"github.com/pixegami/task-assist/internal/entity"
)

func TestSuggestSuccess(t *testing.T) {
	ctx := context.Background()

	gateway := &MockModelGateway{
		ConfiguredValue: true,
		CompleteJSONFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{
				"priorityLevel": 4,
				"suggestedSubtasks": ["book flights", "book hotel"],
				"improvements": ["specify dates"],
				"estimatedTime": "2 hours"
			}`, nil
		},
	}

	service := NewAssistantService(gateway)

	result, err := service.Suggest(ctx, &entity.SuggestionRequest{Title: "Plan vacation"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.PriorityLevel != 4 {
		t.Errorf("Expected priority 4, got %d", result.PriorityLevel)
	}
	if len(result.SuggestedSubtasks) != 2 {
		t.Errorf("Expected 2 subtasks, got %d", len(result.SuggestedSubtasks))
	}
	if gateway.JSONCalls != 1 {
		t.Errorf("Expected exactly one gateway call, got %d", gateway.JSONCalls)
	}
}

func TestSuggestTitleRequired(t *testing.T) {
	ctx := context.Background()

	gateway := &MockModelGateway{ConfiguredValue: true}
	service := NewAssistantService(gateway)

	_, err := service.Suggest(ctx, &entity.SuggestionRequest{Title: ""})
	if !errors.Is(err, entity.ErrInvalidTaskData) {
		t.Errorf("Expected ErrInvalidTaskData, got %v", err)
	}
	if gateway.JSONCalls != 0 {
		t.Errorf("Expected no gateway calls, got %d", gateway.JSONCalls)
	}
}

func TestSuggestNotConfigured(t *testing.T) {
	ctx := context.Background()

	gateway := &MockModelGateway{ConfiguredValue: false}
	service := NewAssistantService(gateway)

	_, err := service.Suggest(ctx, &entity.SuggestionRequest{Title: "Plan vacation"})
	if !errors.Is(err, ai.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
	if gateway.JSONCalls != 0 {
		t.Errorf("Expected no gateway calls without an API key, got %d", gateway.JSONCalls)
	}
}

func TestSuggestGatewayErrorPropagates(t *testing.T) {
	ctx := context.Background()

	gateway := &MockModelGateway{
		ConfiguredValue: true,
		CompleteJSONFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", ai.ErrRateLimited
		},
	}
	service := NewAssistantService(gateway)

	_, err := service.Suggest(ctx, &entity.SuggestionRequest{Title: "Plan vacation"})
	if !errors.Is(err, ai.ErrRateLimited) {
		t.Errorf("Expected ErrRateLimited, got %v", err)
	}
}

func TestSuggestMalformedResponse(t *testing.T) {
	ctx := context.Background()

	gateway := &MockModelGateway{
		ConfiguredValue: true,
		CompleteJSONFunc: func(ctx context.Context, prompt string) (string, error) {
			return "sorry, I cannot help with that", nil
		},
	}
	service := NewAssistantService(gateway)

	_, err := service.Suggest(ctx, &entity.SuggestionRequest{Title: "Plan vacation"})
	if !errors.Is(err, ai.ErrMalformedSuggestions) {
		t.Errorf("Expected ErrMalformedSuggestions, got %v", err)
	}
}

func TestSuggestSanitizesLooseFields(t *testing.T) {
	ctx := context.Background()

	gateway := &MockModelGateway{
		ConfiguredValue: true,
		CompleteJSONFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{"priorityLevel": "high", "suggestedSubtasks": 1, "improvements": null}`, nil
		},
	}
	service := NewAssistantService(gateway)

	result, err := service.Suggest(ctx, &entity.SuggestionRequest{Title: "Plan vacation"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.PriorityLevel != 3 {
		t.Errorf("Expected default priority 3, got %d", result.PriorityLevel)
	}
	if result.SuggestedSubtasks == nil || result.Improvements == nil {
		t.Error("Expected non-nil slices after sanitization")
	}
	if result.EstimatedTime != "Unknown" {
		t.Errorf("Expected Unknown, got %q", result.EstimatedTime)
	}
}
