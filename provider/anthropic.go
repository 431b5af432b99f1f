package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"tessa/model"
	"tessa/ollama"
)

// anthropicDefaultMaxTokens is used when a request leaves MaxTokens unset;
// the Messages API requires it.
const anthropicDefaultMaxTokens = 1024

// AnthropicProvider implements model.Provider using Anthropic's official SDK.
type AnthropicProvider struct {
	client  *anthropic.Client
	model   anthropic.Model
	baseURL string
}

// NewAnthropicProvider creates a new Anthropic provider instance.
//
// Parameters:
//   - baseURL: API base URL (default: "https://api.anthropic.com")
//   - apiKey: Anthropic API key (required)
//   - model: model name (default: claude-sonnet-4-5)
func NewAnthropicProvider(baseURL, apiKey, model string) (*AnthropicProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	anthropicModel := anthropic.Model(model)
	if model == "" {
		anthropicModel = anthropic.ModelClaudeSonnet4_5_20250929
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return &AnthropicProvider{
		client:  &client,
		model:   anthropicModel,
		baseURL: baseURL,
	}, nil
}

// Chat implements model.Provider.Chat. System turns are moved into the
// request's system blocks.
func (p *AnthropicProvider) Chat(ctx context.Context, payload *model.ChatPayload, params model.Params) (string, error) {
	msgs, system := convertToAnthropicMessages(payload)
	return p.send(ctx, msgs, system, params)
}

// Complete implements model.Provider.Complete. Anthropic has no completion
// endpoint, so the prompt becomes a single user turn.
func (p *AnthropicProvider) Complete(ctx context.Context, payload *model.CompletionPayload, params model.Params) (string, error) {
	msgs := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(payload.Prompt)),
	}
	return p.send(ctx, msgs, nil, params)
}

func (p *AnthropicProvider) send(ctx context.Context, msgs []anthropic.MessageParam, system []anthropic.TextBlockParam, params model.Params) (string, error) {
	maxTokens := int64(params.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	req := anthropic.MessageNewParams{
		Model:       p.model,
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(params.Temperature),
		System:      system,
	}
	// Anthropic rejects whitespace-only stop sequences such as "\n".
	for _, s := range params.Stop {
		if strings.TrimSpace(s) != "" {
			req.StopSequences = append(req.StopSequences, s)
		}
	}

	msg, err := p.client.Messages.New(ctx, req)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// ListModels implements model.Provider.ListModels.
func (p *AnthropicProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	page, err := p.client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to list Anthropic models: %w", err)
	}

	result := make([]ollama.ModelInfo, 0, len(page.Data))
	for _, m := range page.Data {
		result = append(result, ollama.ModelInfo{
			Name:         m.DisplayName,
			InternalName: m.ID,
			Provider:     "anthropic",
		})
	}
	return result, nil
}

// GetModel implements model.Provider.GetModel.
func (p *AnthropicProvider) GetModel() string {
	return string(p.model)
}

// Ping implements model.Provider.Ping.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx, anthropic.ModelListParams{}); err != nil {
		return fmt.Errorf("Anthropic ping failed: %w", err)
	}
	return nil
}
