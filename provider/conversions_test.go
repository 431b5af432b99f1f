package provider

import (
	"testing"

	"tessa/model"
)

func TestConvertToOllamaMessages(t *testing.T) {
	tests := []struct {
		name      string
		input     *model.ChatPayload
		wantRoles []string
	}{
		{
			name:      "empty payload",
			input:     &model.ChatPayload{},
			wantRoles: []string{},
		},
		{
			name:      "preamble only",
			input:     &model.ChatPayload{System: "be brief"},
			wantRoles: []string{"system"},
		},
		{
			name: "preamble, context and conversation",
			input: &model.ChatPayload{
				System: "be brief",
				Messages: []model.ChatTurn{
					{Role: model.RoleSystem, Content: "file: a.go"},
					{Role: model.RoleUser, Content: "Hello"},
					{Role: model.RoleAssistant, Content: "Hi there"},
					{Role: model.RoleUser, Content: "How are you?"},
				},
			},
			wantRoles: []string{"system", "system", "user", "assistant", "user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertToOllamaMessages(tt.input)

			if len(result) != len(tt.wantRoles) {
				t.Fatalf("length mismatch: got %d, want %d", len(result), len(tt.wantRoles))
			}
			for i, msg := range result {
				if msg.Role != tt.wantRoles[i] {
					t.Errorf("message %d role: got %q, want %q", i, msg.Role, tt.wantRoles[i])
				}
			}
		})
	}
}

func TestConvertToOpenAIMessagesCount(t *testing.T) {
	payload := &model.ChatPayload{
		System: "preamble",
		Messages: []model.ChatTurn{
			{Role: model.RoleSystem, Content: "context"},
			{Role: model.RoleUser, Content: "hi"},
		},
	}

	msgs := ConvertToOpenAIMessages(payload)
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].OfSystem == nil || msgs[1].OfSystem == nil {
		t.Error("expected the first two messages to be system messages")
	}
	if msgs[2].OfUser == nil {
		t.Error("expected the last message to be a user message")
	}
}

func TestConvertToAnthropicMessages(t *testing.T) {
	tests := []struct {
		name       string
		input      *model.ChatPayload
		wantSystem int
		wantTurns  int
	}{
		{
			name: "system turns become system blocks",
			input: &model.ChatPayload{
				System: "preamble",
				Messages: []model.ChatTurn{
					{Role: model.RoleSystem, Content: "context"},
					{Role: model.RoleUser, Content: "hi"},
				},
			},
			wantSystem: 2,
			wantTurns:  1,
		},
		{
			name: "adjacent user turns are merged",
			input: &model.ChatPayload{
				Messages: []model.ChatTurn{
					{Role: model.RoleUser, Content: "one"},
					{Role: model.RoleUser, Content: "two"},
					{Role: model.RoleAssistant, Content: "three"},
					{Role: model.RoleUser, Content: "four"},
				},
			},
			wantSystem: 0,
			wantTurns:  3,
		},
		{
			name: "leading assistant turn is dropped",
			input: &model.ChatPayload{
				Messages: []model.ChatTurn{
					{Role: model.RoleAssistant, Content: "hello"},
					{Role: model.RoleUser, Content: "hi"},
				},
			},
			wantSystem: 0,
			wantTurns:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs, system := convertToAnthropicMessages(tt.input)
			if len(system) != tt.wantSystem {
				t.Errorf("system blocks: got %d, want %d", len(system), tt.wantSystem)
			}
			if len(msgs) != tt.wantTurns {
				t.Errorf("turns: got %d, want %d", len(msgs), tt.wantTurns)
			}
		})
	}
}

func TestStripProviderPrefix(t *testing.T) {
	tests := map[string]string{
		"meta-llama/llama-3.2-90b-instruct": "llama-3.2-90b-instruct",
		"qwen/qwen3-coder:free":             "qwen3-coder:free",
		"gpt-4o-mini":                       "gpt-4o-mini",
	}
	for in, want := range tests {
		if got := stripProviderPrefix(in); got != want {
			t.Errorf("stripProviderPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
