package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

const (
	labelTemperature = 0.3
	labelMaxTokens   = 16

	suggestionTemperature = 0.5
	suggestionMaxTokens   = 800
)

// Client - шлюз к OpenAI chat completions. Ровно одна попытка на вызов,
// без ретраев; политика повторов, если нужна, живет у вызывающего.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey, model, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Configured сообщает, задан ли ключ провайдера
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// CompleteLabel запрашивает короткий однословный ответ (низкая температура,
// жесткий потолок токенов)
func (c *Client) CompleteLabel(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, prompt, labelTemperature, labelMaxTokens, false)
}

// CompleteJSON запрашивает один JSON-объект (режим json_object)
func (c *Client) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, prompt, suggestionTemperature, suggestionMaxTokens, true)
}

func (c *Client) complete(ctx context.Context, prompt string, temperature float64, maxTokens int, jsonMode bool) (string, error) {
	// Проверяем ключ до любого сетевого вызова
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.classifyError(resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		log.Printf("⚠️ OpenAI вернул успешный ответ без текста (model=%s)", c.model)
		return "", ErrEmptyResponse
	}

	return chatResp.Choices[0].Message.Content, nil
}

// classifyError переводит статус провайдера в одну из известных ошибок,
// логируя диагностику целиком
func (c *Client) classifyError(status int, body []byte) error {
	var provErr apiError
	_ = json.Unmarshal(body, &provErr)

	log.Printf("❌ OpenAI API error: status=%d code=%q type=%q message=%q",
		status, provErr.Error.Code, provErr.Error.Type, provErr.Error.Message)

	switch {
	case status == http.StatusUnauthorized || provErr.Error.Code == "invalid_api_key":
		return fmt.Errorf("%w (status %d): %s", ErrProviderAuth, status, provErr.Error.Message)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w (status %d): %s", ErrRateLimited, status, provErr.Error.Message)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w (status %d): %s", ErrProviderUnavailable, status, provErr.Error.Message)
	default:
		return fmt.Errorf("unexpected openai error (status %d): %s", status, provErr.Error.Message)
	}
}
