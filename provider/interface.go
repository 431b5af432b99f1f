// Package provider resolves logical model ids to endpoints and sends
// provider-agnostic requests to them.
//
// tessa talks to several model APIs (OpenAI, OpenRouter, Anthropic, Ollama)
// through the model.Provider interface. Callers never see provider-specific
// types: they build a model.Request, resolve a model.Endpoint through the
// Registry and hand both to Client.Send.
//
// # Request shapes
//
// Every endpoint declares a shape, chat or completion. The shape is checked
// once, at the Client boundary, and decides whether Provider.Chat or
// Provider.Complete is called:
//   - OpenAI and OpenRouter map completion requests to the legacy
//     /completions API.
//   - Anthropic has no completion API; the prompt is sent as a single user
//     turn.
//   - Ollama serves completion requests through raw generate, bypassing the
//     model's chat template.
//
// # Errors
//
// Client.Send never retries. Failures come back as *model.ConfigError
// (nothing was sent), *model.TransportError (the API call failed) or
// *model.EmptyResponseError (the call succeeded with blank text).
//
// # Usage
//
//	reg := provider.NewRegistry(cfg)
//	ep, err := reg.Resolve("gpt-4o-mini")
//	if err != nil {
//	    // handle error
//	}
//	text, err := provider.NewClient().Send(ctx, req, ep)
package provider

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
)

// Config holds provider-specific configuration. It is comparable and used
// as the key of the Client's provider cache.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // unused for Ollama
}

// RequiresAPIKey reports whether requests to this provider need a credential.
func (t ProviderType) RequiresAPIKey() bool {
	return t != ProviderTypeOllama
}
