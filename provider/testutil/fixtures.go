package testutil

import (
	"tessa/config"
	"tessa/model"
)

// TestConfig returns a resolved configuration with default budgets and a
// global API key, without touching the filesystem.
func TestConfig() *config.Config {
	return &config.Config{
		DataDirectory:          "/tmp/tessa-test",
		APIKey:                 "sk-test",
		APIURL:                 config.DefaultAPIURL,
		DefaultChatModel:       "gpt-3.5-turbo",
		DefaultCompletionModel: "gpt-3.5-turbo-instruct",
		DefaultFimModel:        "gpt-3.5-turbo",
		HistoryMessages:        10,
		Explain:                config.ExplainConfig{Lines: 30, Chars: 1500},
		Completion:             config.CompletionConfig{Enabled: true, DebounceMS: 300, ContextChars: 2000, CacheTTLSeconds: 30},
		FIM:                    config.FIMConfig{PrefixChars: 3500, SuffixChars: 2000},
		CredentialStore:        config.NewCredentialStore(config.SecurityPlainText, ""),
	}
}

// GoFile is a small Go document with the cursor on the line "	return a + b"
// just before "return".
func GoFile() *model.EditorContext {
	return &model.EditorContext{
		FilePath:   "/work/calc/add.go",
		LanguageID: "go",
		FullText:   "package calc\n\nfunc Add(a, b int) int {\n\treturn a + b\n}\n",
		Cursor:     model.Position{Line: 3, Character: 1},
	}
}

// WithSelection returns a copy of ctx with the given selection text.
func WithSelection(ctx *model.EditorContext, text string) *model.EditorContext {
	c := *ctx
	c.Selection = model.Selection{Text: text, StartLine: ctx.Cursor.Line, EndLine: ctx.Cursor.Line}
	return &c
}

// ChatHistory returns a short alternating conversation.
func ChatHistory() []model.Message {
	return []model.Message{
		model.NewMessage(model.RoleSystem, "Welcome"),
		model.NewMessage(model.RoleUser, "Hello, how are you?"),
		model.NewMarkupMessage("I'm doing well, thank you!", "<p>I'm doing well, thank you!</p>"),
		model.NewMessage(model.RoleUser, "Can you help me with a task?"),
	}
}
