package model

import (
	"context"

	"tessa/ollama"
)

// Provider is one model API. Implementations live in the provider package;
// the interface sits here so provider can import model without a cycle.
//
// Each call is a single attempt. Implementations return the raw provider
// error and leave classification to the caller.
type Provider interface {
	// Chat sends a chat-shaped payload and returns the assistant text.
	Chat(ctx context.Context, payload *ChatPayload, params Params) (string, error)

	// Complete sends a completion-shaped prompt and returns the completion text.
	Complete(ctx context.Context, payload *CompletionPayload, params Params) (string, error)

	// ListModels returns the models the provider reports as available.
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)

	// GetModel returns the model name requests are sent with.
	GetModel() string

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}
