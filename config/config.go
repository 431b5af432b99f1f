package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

// ModelConfig is one entry of the [[models]] override list.
type ModelConfig struct {
	Name     string `toml:"name"`
	ID       string `toml:"id"`
	APIURL   string `toml:"api_url,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
	Type     string `toml:"type"`               // "chat" or "completion"
	Provider string `toml:"provider,omitempty"` // "openai", "openrouter", "anthropic", "ollama"
}

type ExplainConfig struct {
	Lines int `toml:"lines"`
	Chars int `toml:"chars"`
}

type CompletionConfig struct {
	Enabled         bool `toml:"enabled"`
	DebounceMS      int  `toml:"debounce_ms"`
	ContextChars    int  `toml:"context_chars"`
	CacheTTLSeconds int  `toml:"cache_ttl_seconds"`
}

type FIMConfig struct {
	PrefixChars int `toml:"prefix_chars"`
	SuffixChars int `toml:"suffix_chars"`
}

type UserConfig struct {
	APIKey                 string           `toml:"api_key,omitempty"`
	APIURL                 string           `toml:"api_url"`
	DefaultChatModel       string           `toml:"default_chat_model"`
	DefaultCompletionModel string           `toml:"default_completion_model"`
	DefaultFimModel        string           `toml:"default_fim_model"`
	SystemPrompt           string           `toml:"system_prompt,omitempty"`
	HistoryMessages        int              `toml:"history_messages"`
	Security               SecurityMethod   `toml:"security,omitempty"`
	SSHKeyPath             string           `toml:"ssh_key_path,omitempty"`
	Explain                ExplainConfig    `toml:"explain"`
	Completion             CompletionConfig `toml:"completion"`
	FIM                    FIMConfig        `toml:"fim"`
	Models                 []ModelConfig    `toml:"models"`
}

// Config is the resolved runtime configuration. It is loaded once and passed
// to constructors; nothing reads settings from disk after startup.
type Config struct {
	DataDirectory          string
	APIKey                 string
	APIURL                 string
	DefaultChatModel       string
	DefaultCompletionModel string
	DefaultFimModel        string
	SystemPrompt           string
	HistoryMessages        int
	Explain                ExplainConfig
	Completion             CompletionConfig
	FIM                    FIMConfig
	Models                 []ModelConfig
	CredentialStore        *CredentialStore
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// ModelByID returns the override entry for a logical model id.
func (c *Config) ModelByID(id string) (ModelConfig, bool) {
	for _, m := range c.Models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelConfig{}, false
}

func (c *Config) applyUserConfig(u *UserConfig) {
	def := DefaultUserConfig()

	c.APIKey = u.APIKey
	c.APIURL = firstNonEmpty(u.APIURL, def.APIURL)
	c.DefaultChatModel = firstNonEmpty(u.DefaultChatModel, def.DefaultChatModel)
	c.DefaultCompletionModel = firstNonEmpty(u.DefaultCompletionModel, def.DefaultCompletionModel)
	c.DefaultFimModel = firstNonEmpty(u.DefaultFimModel, def.DefaultFimModel)
	c.SystemPrompt = u.SystemPrompt
	c.Models = u.Models

	c.HistoryMessages = u.HistoryMessages
	if c.HistoryMessages < 0 {
		c.HistoryMessages = 0
	}

	c.Explain = u.Explain
	if c.Explain.Lines <= 0 {
		c.Explain.Lines = def.Explain.Lines
	}
	if c.Explain.Chars <= 0 {
		c.Explain.Chars = def.Explain.Chars
	}

	c.Completion = u.Completion
	if c.Completion.DebounceMS <= 0 {
		c.Completion.DebounceMS = def.Completion.DebounceMS
	}
	if c.Completion.ContextChars <= 0 {
		c.Completion.ContextChars = def.Completion.ContextChars
	}
	if c.Completion.CacheTTLSeconds <= 0 {
		c.Completion.CacheTTLSeconds = def.Completion.CacheTTLSeconds
	}

	c.FIM = u.FIM
	if c.FIM.PrefixChars <= 0 {
		c.FIM.PrefixChars = def.FIM.PrefixChars
	}
	if c.FIM.SuffixChars <= 0 {
		c.FIM.SuffixChars = def.FIM.SuffixChars
	}
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("TESSA_API_KEY"); key != "" {
		c.APIKey = key
	}
	if url := os.Getenv("TESSA_API_URL"); url != "" {
		c.APIURL = url
	}
	if model := os.Getenv("TESSA_CHAT_MODEL"); model != "" {
		c.DefaultChatModel = model
	}
}

func CheckDebug() bool {
	debug := os.Getenv("TESSA_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: prompts and file contents end up in here
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (TESSA_DEBUG=%s) ===", os.Getenv("TESSA_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// LoadEnvFile loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadEnvFile() error {
	if !FileExists(".env") {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func Load() (*Config, error) {
	if err := LoadEnvFile(); err != nil {
		return nil, err
	}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	cfg := &Config{DataDirectory: systemCfg.DataDirectory}
	if dataDir := os.Getenv("TESSA_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)
	cfg.applyEnvOverrides()

	method := userCfg.Security
	if method == "" {
		method = SecurityPlainText
	}
	store := NewCredentialStore(method, ExpandPath(userCfg.SSHKeyPath))
	if pass := os.Getenv("TESSA_SSH_PASSPHRASE"); pass != "" {
		store.SetPassphrase(pass)
	}
	if err := store.Load(dataDir); err != nil {
		// A broken credential file must not keep the host from starting;
		// resolution falls through to the global key.
		if DebugLog != nil {
			DebugLog.Printf("[Config] credential store unavailable: %v", err)
		}
	}
	cfg.CredentialStore = store

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
