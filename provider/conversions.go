package provider

import (
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"tessa/model"
	"tessa/ollama"
)

// ConvertToOpenAIMessages flattens a chat payload into OpenAI messages. The
// preamble goes first as a system message; further system turns keep their
// position.
//
// Example:
//
//	msgs := ConvertToOpenAIMessages(&model.ChatPayload{
//	    System:   "You are helpful.",
//	    Messages: []model.ChatTurn{{Role: model.RoleUser, Content: "hi"}},
//	})
//	// msgs = [system "You are helpful.", user "hi"]
func ConvertToOpenAIMessages(payload *model.ChatPayload) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(payload.Messages)+1)
	if payload.System != "" {
		result = append(result, openai.SystemMessage(payload.System))
	}

	for _, turn := range payload.Messages {
		switch turn.Role {
		case model.RoleSystem:
			result = append(result, openai.SystemMessage(turn.Content))
		case model.RoleAssistant:
			result = append(result, openai.AssistantMessage(turn.Content))
		default:
			result = append(result, openai.UserMessage(turn.Content))
		}
	}
	return result
}

// ConvertToOllamaMessages performs the same flattening for the Ollama API,
// which shares the role/content layout.
func ConvertToOllamaMessages(payload *model.ChatPayload) []api.Message {
	result := make([]api.Message, 0, len(payload.Messages)+1)
	if payload.System != "" {
		result = append(result, api.Message{Role: string(model.RoleSystem), Content: payload.System})
	}
	for _, turn := range payload.Messages {
		result = append(result, api.Message{Role: string(turn.Role), Content: turn.Content})
	}
	return result
}

// convertToAnthropicMessages splits a payload into Anthropic's system blocks
// and conversation. Anthropic requires the first turn to be a user turn and
// rejects two consecutive turns with the same role, so adjacent same-role
// turns are merged.
func convertToAnthropicMessages(payload *model.ChatPayload) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var system []anthropic.TextBlockParam
	if payload.System != "" {
		system = append(system, anthropic.TextBlockParam{Text: payload.System})
	}

	type turn struct {
		role model.Role
		text []string
	}
	var turns []turn
	for _, t := range payload.Messages {
		if t.Role == model.RoleSystem {
			system = append(system, anthropic.TextBlockParam{Text: t.Content})
			continue
		}
		role := t.Role
		if role != model.RoleAssistant {
			role = model.RoleUser
		}
		if n := len(turns); n > 0 && turns[n-1].role == role {
			turns[n-1].text = append(turns[n-1].text, t.Content)
			continue
		}
		turns = append(turns, turn{role: role, text: []string{t.Content}})
	}
	if len(turns) > 0 && turns[0].role == model.RoleAssistant {
		turns = turns[1:]
	}

	msgs := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		block := anthropic.NewTextBlock(strings.Join(t.text, "\n\n"))
		if t.role == model.RoleAssistant {
			msgs = append(msgs, anthropic.NewAssistantMessage(block))
		} else {
			msgs = append(msgs, anthropic.NewUserMessage(block))
		}
	}
	return msgs, system
}

func toOllamaOptions(params model.Params) ollama.Options {
	return ollama.Options{
		NumPredict:  params.MaxTokens,
		Temperature: params.Temperature,
		Stop:        params.Stop,
	}
}

// stripProviderPrefix removes vendor prefixes from OpenRouter model names.
// "meta-llama/llama-3.2-90b-instruct" → "llama-3.2-90b-instruct"
func stripProviderPrefix(modelName string) string {
	if idx := strings.Index(modelName, "/"); idx != -1 {
		return modelName[idx+1:]
	}
	return modelName
}
