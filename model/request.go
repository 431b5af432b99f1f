package model

import "fmt"

// Shape is the request format an endpoint accepts.
type Shape string

const (
	ShapeChat       Shape = "chat"
	ShapeCompletion Shape = "completion"
)

func ParseShape(s string) (Shape, error) {
	switch s {
	case "", "chat":
		return ShapeChat, nil
	case "completion":
		return ShapeCompletion, nil
	default:
		return "", fmt.Errorf("unknown request shape %q", s)
	}
}

// Endpoint is a resolved model endpoint. LogicalID doubles as the model
// name sent to the provider.
type Endpoint struct {
	LogicalID   string
	DisplayName string
	BaseURL     string
	APIKey      string
	Shape       Shape
	Provider    string
}

type ChatTurn struct {
	Role    Role
	Content string
}

// ChatPayload is the body of a chat-shaped request. System is the fixed
// preamble; Messages may carry further system turns (editor context) ahead
// of the conversation.
type ChatPayload struct {
	System   string
	Messages []ChatTurn
}

type CompletionPayload struct {
	Prompt string
}

type Params struct {
	MaxTokens   int
	Temperature float64
	Stop        []string
}

// Request is a provider-agnostic request. Exactly one of Chat and Completion
// is set, matching Shape.
type Request struct {
	Kind       Kind
	Shape      Shape
	Chat       *ChatPayload
	Completion *CompletionPayload
	Params     Params
}

func (r Request) Validate() error {
	switch r.Shape {
	case ShapeChat:
		if r.Chat == nil || r.Completion != nil {
			return fmt.Errorf("chat request must carry only a chat payload")
		}
	case ShapeCompletion:
		if r.Completion == nil || r.Chat != nil {
			return fmt.Errorf("completion request must carry only a prompt")
		}
	default:
		return fmt.Errorf("unknown request shape %q", r.Shape)
	}
	return nil
}

// ModelSummary describes a selectable model for front ends.
type ModelSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     Shape  `json:"type"`
	Provider string `json:"provider"`
}
