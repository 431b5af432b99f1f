package testutil

import (
	"context"
	"sync"

	"tessa/model"
	"tessa/ollama"
	"tessa/provider"
)

// MockProvider implements model.Provider for tests. Every call is recorded so
// tests can assert how many requests reached the "network".
type MockProvider struct {
	// Configurable responses
	ChatFunc       func(ctx context.Context, payload *model.ChatPayload, params model.Params) (string, error)
	CompleteFunc   func(ctx context.Context, payload *model.CompletionPayload, params model.Params) (string, error)
	ListModelsFunc func(ctx context.Context) ([]ollama.ModelInfo, error)
	PingFunc       func(ctx context.Context) error

	currentModel string

	mu              sync.Mutex
	ChatCalls       []*model.ChatPayload
	CompletionCalls []*model.CompletionPayload
	ParamsSeen      []model.Params
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	return &MockProvider{
		currentModel: modelName,
		ChatFunc: func(ctx context.Context, payload *model.ChatPayload, params model.Params) (string, error) {
			return "Mock response", nil
		},
		CompleteFunc: func(ctx context.Context, payload *model.CompletionPayload, params model.Params) (string, error) {
			return "mock completion", nil
		},
		ListModelsFunc: func(ctx context.Context) ([]ollama.ModelInfo, error) {
			return []ollama.ModelInfo{
				{Name: "mock-model-1", Size: 1000},
				{Name: "mock-model-2", Size: 2000},
			}, nil
		},
		PingFunc: func(ctx context.Context) error { return nil },
	}
}

// Reply makes the mock answer every chat and completion call with text.
func (m *MockProvider) Reply(text string) *MockProvider {
	m.ChatFunc = func(context.Context, *model.ChatPayload, model.Params) (string, error) { return text, nil }
	m.CompleteFunc = func(context.Context, *model.CompletionPayload, model.Params) (string, error) { return text, nil }
	return m
}

// Fail makes every chat and completion call return err.
func (m *MockProvider) Fail(err error) *MockProvider {
	m.ChatFunc = func(context.Context, *model.ChatPayload, model.Params) (string, error) { return "", err }
	m.CompleteFunc = func(context.Context, *model.CompletionPayload, model.Params) (string, error) { return "", err }
	return m
}

func (m *MockProvider) Chat(ctx context.Context, payload *model.ChatPayload, params model.Params) (string, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, payload)
	m.ParamsSeen = append(m.ParamsSeen, params)
	m.mu.Unlock()
	return m.ChatFunc(ctx, payload, params)
}

func (m *MockProvider) Complete(ctx context.Context, payload *model.CompletionPayload, params model.Params) (string, error) {
	m.mu.Lock()
	m.CompletionCalls = append(m.CompletionCalls, payload)
	m.ParamsSeen = append(m.ParamsSeen, params)
	m.mu.Unlock()
	return m.CompleteFunc(ctx, payload, params)
}

// CallCount returns the number of Chat and Complete calls made so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ChatCalls) + len(m.CompletionCalls)
}

// LastChat returns the most recent chat payload, or nil.
func (m *MockProvider) LastChat() *model.ChatPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ChatCalls) == 0 {
		return nil
	}
	return m.ChatCalls[len(m.ChatCalls)-1]
}

func (m *MockProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return m.ListModelsFunc(ctx)
}

func (m *MockProvider) GetModel() string {
	return m.currentModel
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}

// NewMockClient returns a provider.Client whose factory always hands out p,
// plus a counter of how many providers the factory built.
func NewMockClient(p model.Provider) (*provider.Client, *int) {
	built := 0
	c := provider.NewClientWithFactory(func(provider.Config) (model.Provider, error) {
		built++
		return p, nil
	})
	return c, &built
}
