package provider_test

import (
	"context"
	"fmt"
	"log"

	"tessa/model"
	"tessa/provider"
)

// ExampleNewProvider demonstrates creating an Ollama provider using the factory.
func ExampleNewProvider() {
	cfg := provider.Config{
		Type:    provider.ProviderTypeOllama,
		BaseURL: "http://localhost:11434",
		Model:   "qwen2.5-coder:7b",
	}

	p, err := provider.NewProvider(cfg)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Provider created: %T\n", p)
	// Output: Provider created: *provider.OllamaProvider
}

// ExampleClient_Send demonstrates sending a chat request to a resolved endpoint.
//
// Note: This example doesn't run because it requires a live API.
func ExampleClient_Send() {
	ep := model.Endpoint{
		LogicalID:   "gpt-4o-mini",
		DisplayName: "GPT-4o mini",
		BaseURL:     "https://api.openai.com/v1",
		APIKey:      "sk-...",
		Shape:       model.ShapeChat,
		Provider:    "openai",
	}
	req := model.Request{
		Kind:  model.KindChat,
		Shape: model.ShapeChat,
		Chat: &model.ChatPayload{
			System:   "You are a helpful assistant.",
			Messages: []model.ChatTurn{{Role: model.RoleUser, Content: "Hello!"}},
		},
		Params: model.Params{MaxTokens: 1024, Temperature: 0.7},
	}

	text, err := provider.NewClient().Send(context.Background(), req, ep)
	if err != nil {
		fmt.Println(model.UserMessage(err))
		return
	}
	fmt.Println(text)
}

// ExampleMapProviderIDToType shows how config provider ids map to types.
func ExampleMapProviderIDToType() {
	fmt.Println(provider.MapProviderIDToType(""))
	fmt.Println(provider.MapProviderIDToType("openrouter"))
	fmt.Println(provider.MapProviderIDToType("ollama"))
	// Output:
	// openai
	// openrouter
	// ollama
}
