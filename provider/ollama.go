package provider

import (
	"context"
	"fmt"

	"tessa/model"
	"tessa/ollama"
)

// OllamaProvider wraps ollama.Client to implement model.Provider.
//
// Chat-shaped requests use the chat endpoint. Completion-shaped requests go
// through raw generate so the prompt reaches the model without a chat
// template around it, which is what inline and fill-in-the-middle prompts
// expect. Ollama needs no credential.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: The Ollama server URL. Defaults to "http://localhost:11434".
//   - model: The model name (e.g., "qwen2.5-coder:7b"). Required.
//
// Example:
//
//	p, err := NewOllamaProvider("http://localhost:11434", "qwen2.5-coder:7b")
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return &OllamaProvider{client: client}, nil
}

// Chat implements model.Provider.Chat.
func (p *OllamaProvider) Chat(ctx context.Context, payload *model.ChatPayload, params model.Params) (string, error) {
	return p.client.Chat(ctx, ConvertToOllamaMessages(payload), toOllamaOptions(params))
}

// Complete implements model.Provider.Complete via raw generate.
func (p *OllamaProvider) Complete(ctx context.Context, payload *model.CompletionPayload, params model.Params) (string, error) {
	return p.client.Generate(ctx, payload.Prompt, toOllamaOptions(params))
}

// ListModels implements model.Provider.ListModels.
func (p *OllamaProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return p.client.ListModels(ctx)
}

// GetModel implements model.Provider.GetModel.
func (p *OllamaProvider) GetModel() string {
	return p.client.GetModel()
}

// Ping implements model.Provider.Ping.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}
