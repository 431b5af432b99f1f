package config

const (
	DefaultAPIURL       = "https://api.openai.com/v1"
	DefaultSystemPrompt = "You are a helpful AI assistant integrated into a code editor. Be concise and helpful. Format code snippets using markdown."
)

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/tessa",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		APIURL:                 DefaultAPIURL,
		DefaultChatModel:       "gpt-3.5-turbo",
		DefaultCompletionModel: "gpt-3.5-turbo-instruct",
		DefaultFimModel:        "gpt-3.5-turbo",
		HistoryMessages:        10,
		Security:               SecurityPlainText,
		Explain: ExplainConfig{
			Lines: 30,
			Chars: 1500,
		},
		Completion: CompletionConfig{
			Enabled:         true,
			DebounceMS:      300,
			ContextChars:    2000,
			CacheTTLSeconds: 30,
		},
		FIM: FIMConfig{
			PrefixChars: 3500,
			SuffixChars: 2000,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# tessa System Configuration
# Location: ~/.config/tessa/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the user config, credentials and debug log are stored
data_directory = "~/.local/share/tessa"
`
}

func GenerateUserConfigTemplate() string {
	return `# tessa User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# Global API key and base URL, used when a model has no override.
# TESSA_API_KEY / TESSA_API_URL take precedence when set.
api_key = ""
api_url = "https://api.openai.com/v1"

# Logical model ids used per action
default_chat_model = "gpt-3.5-turbo"
default_completion_model = "gpt-3.5-turbo-instruct"
default_fim_model = "gpt-3.5-turbo"

# Replaces the built-in system preamble when set
system_prompt = ""

# Previous user/assistant messages replayed with every chat request
history_messages = 10

# Credential storage: "plaintext" or "ssh_key"
security = "plaintext"
ssh_key_path = ""

[explain]
# Source window around the cursor for /explain without a selection
lines = 30
chars = 1500

[completion]
enabled = true
debounce_ms = 300
context_chars = 2000
cache_ttl_seconds = 30

[fim]
prefix_chars = 3500
suffix_chars = 2000

# Per-model overrides. type is "chat" or "completion";
# provider is "openai" (default), "openrouter", "anthropic" or "ollama".
#
# [[models]]
# name = "GPT-3.5 Instruct"
# id = "gpt-3.5-turbo-instruct"
# type = "completion"
#
# [[models]]
# name = "Local Qwen"
# id = "qwen2.5-coder:7b"
# type = "chat"
# provider = "ollama"
# api_url = "http://localhost:11434"
`
}
