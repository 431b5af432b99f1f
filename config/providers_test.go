package config

import "testing"

func TestResolveAPIKey(t *testing.T) {
	store := NewCredentialStore(SecurityPlainText, "")
	store.Set(ProviderAnthropic, "sk-ant")
	cfg := &Config{APIKey: "global", CredentialStore: store}

	tests := []struct {
		name string
		m    ModelConfig
		want string
	}{
		{"own key wins", ModelConfig{APIKey: "own", Provider: ProviderAnthropic}, "own"},
		{"provider key", ModelConfig{Provider: "Anthropic "}, "sk-ant"},
		{"global fallback", ModelConfig{Provider: ProviderOpenRouter}, "global"},
		{"default provider", ModelConfig{}, "global"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.ResolveAPIKey(tt.m); got != tt.want {
				t.Errorf("ResolveAPIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveAPIURL(t *testing.T) {
	cfg := &Config{APIURL: "https://proxy.example/v1"}

	tests := []struct {
		name string
		m    ModelConfig
		want string
	}{
		{"own url", ModelConfig{APIURL: "http://box:8080/v1"}, "http://box:8080/v1"},
		{"provider url", ModelConfig{Provider: ProviderOllama}, "http://localhost:11434"},
		{"global url", ModelConfig{Provider: ProviderOpenAI}, "https://proxy.example/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.ResolveAPIURL(tt.m); got != tt.want {
				t.Errorf("ResolveAPIURL() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := (&Config{}).ResolveAPIURL(ModelConfig{}); got != DefaultAPIURL {
		t.Errorf("empty config URL = %q", got)
	}
}

func TestSetProviderKey(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{DataDirectory: dir, CredentialStore: NewCredentialStore(SecurityPlainText, "")}

	if err := SetProviderKey(cfg, "nope", "k"); err == nil {
		t.Error("unknown provider accepted")
	}
	if err := SetProviderKey(cfg, "OpenAI", "sk-1"); err != nil {
		t.Fatal(err)
	}

	reloaded := NewCredentialStore(SecurityPlainText, "")
	if err := reloaded.Load(cfg.DataDir()); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Get(ProviderOpenAI); got != "sk-1" {
		t.Errorf("persisted key = %q", got)
	}

	if err := SetProviderKey(cfg, ProviderOpenAI, ""); err != nil {
		t.Fatal(err)
	}
	if got := cfg.CredentialStore.Get(ProviderOpenAI); got != "" {
		t.Errorf("key after delete = %q", got)
	}
}
