package provider

import (
	"fmt"

	"tessa/model"
)

// NewProvider creates a provider based on configuration.
//
// This is the centralized factory for every provider type. It dispatches on
// Config.Type:
//   - ProviderTypeOllama: local Ollama server
//   - ProviderTypeOpenAI: OpenAI or any OpenAI-compatible server
//   - ProviderTypeOpenRouter: OpenRouter (OpenAI-compatible, attribution headers)
//   - ProviderTypeAnthropic: Anthropic Messages API
//
// Returns an error if the type is unknown or the provider-specific
// constructor fails (missing API key, invalid URL).
//
// Example:
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:    provider.ProviderTypeOpenAI,
//	    BaseURL: "https://api.openai.com/v1",
//	    Model:   "gpt-4o-mini",
//	    APIKey:  "sk-...",
//	})
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	case ProviderTypeOpenRouter:
		return NewOpenRouterProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts a config provider id to a ProviderType.
//
// An empty id means OpenAI, the default for models without a provider
// field. Unknown ids are passed through and rejected by NewProvider.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "", "openai":
		return ProviderTypeOpenAI
	case "ollama":
		return ProviderTypeOllama
	case "openrouter":
		return ProviderTypeOpenRouter
	case "anthropic":
		return ProviderTypeAnthropic
	default:
		return ProviderType(id)
	}
}

// ConfigForEndpoint builds the provider configuration for a resolved endpoint.
func ConfigForEndpoint(ep model.Endpoint) Config {
	return Config{
		Type:    MapProviderIDToType(ep.Provider),
		BaseURL: ep.BaseURL,
		Model:   ep.LogicalID,
		APIKey:  ep.APIKey,
	}
}
