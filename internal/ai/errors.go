package ai

import "errors"

var (
	ErrNotConfigured        = errors.New("openai api key is not configured")
	ErrProviderAuth         = errors.New("openai api key is invalid")
	ErrRateLimited          = errors.New("openai quota exceeded")
	ErrProviderUnavailable  = errors.New("openai service unavailable")
	ErrEmptyResponse        = errors.New("openai returned empty response")
	ErrMalformedSuggestions = errors.New("failed to parse AI suggestions")
)
