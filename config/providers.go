package config

import (
	"fmt"
	"strings"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderOllama     = "ollama"
)

var providerBaseURLs = map[string]string{
	ProviderOpenRouter: "https://openrouter.ai/api/v1",
	ProviderAnthropic:  "https://api.anthropic.com",
	ProviderOllama:     "http://localhost:11434",
}

// KnownProvider reports whether name is a supported provider id.
func KnownProvider(name string) bool {
	switch name {
	case ProviderOpenAI, ProviderOpenRouter, ProviderAnthropic, ProviderOllama:
		return true
	}
	return false
}

// ProviderOf returns the provider for a model entry, defaulting to openai.
func ProviderOf(m ModelConfig) string {
	if p := strings.ToLower(strings.TrimSpace(m.Provider)); p != "" {
		return p
	}
	return ProviderOpenAI
}

// ResolveAPIKey picks the key for a model: its own api_key, then the
// credential store entry for its provider, then the global key. Empty means
// no key is configured.
func (c *Config) ResolveAPIKey(m ModelConfig) string {
	if m.APIKey != "" {
		return m.APIKey
	}
	if key := c.CredentialStore.Get(ProviderOf(m)); key != "" {
		return key
	}
	return c.APIKey
}

// ResolveAPIURL picks the base URL for a model: its own api_url, then the
// provider's well-known URL, then the global URL.
func (c *Config) ResolveAPIURL(m ModelConfig) string {
	if m.APIURL != "" {
		return m.APIURL
	}
	if u, ok := providerBaseURLs[ProviderOf(m)]; ok {
		return u
	}
	if c.APIURL != "" {
		return c.APIURL
	}
	return DefaultAPIURL
}

// SetProviderKey stores an API key for a provider in the credential store and
// persists it. An empty key removes the entry.
func SetProviderKey(cfg *Config, provider, apiKey string) error {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !KnownProvider(provider) {
		return fmt.Errorf("unknown provider: %s", provider)
	}
	if cfg.CredentialStore == nil {
		return fmt.Errorf("credential store is not available")
	}

	if apiKey == "" {
		cfg.CredentialStore.Delete(provider)
	} else {
		cfg.CredentialStore.Set(provider, apiKey)
	}

	if err := cfg.CredentialStore.Save(cfg.DataDir()); err != nil {
		return fmt.Errorf("failed to persist credentials: %w", err)
	}
	if DebugLog != nil {
		DebugLog.Printf("[Config] updated credential for provider %s", provider)
	}
	return nil
}
