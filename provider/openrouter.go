package provider

import (
	"fmt"

	"github.com/openai/openai-go/v3/option"
)

// OpenRouter attribution headers, see https://openrouter.ai/docs/api-reference/overview
const (
	openRouterReferer = "https://github.com/tessa-agent/tessa"
	openRouterTitle   = "tessa"
)

// NewOpenRouterProvider creates a provider for OpenRouter's API, which is
// OpenAI-compatible. Model names keep their vendor prefix
// ("qwen/qwen3-coder:free"); ListModels strips it for display.
func NewOpenRouterProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required")
	}

	p, err := NewOpenAIProvider(baseURL, apiKey, model,
		option.WithHeader("HTTP-Referer", openRouterReferer),
		option.WithHeader("X-Title", openRouterTitle),
	)
	if err != nil {
		return nil, err
	}
	p.name = "openrouter"
	return p, nil
}
