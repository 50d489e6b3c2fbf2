package llm

import (
	"strings"
	"testing"
)

func TestParseProviderType(t *testing.T) {
	tests := []struct {
		input string
		want  ProviderType
	}{
		{"openai", ProviderOpenAI},
		{"GPT", ProviderOpenAI},
		{"anthropic", ProviderAnthropic},
		{"Claude", ProviderAnthropic},
		{"deepseek", ProviderDeepSeek},
		{"gemini", ProviderGemini},
		{"google", ProviderGemini},
	}

	for _, tt := range tests {
		got, err := ParseProviderType(tt.input)
		if err != nil {
			t.Errorf("ParseProviderType(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseProviderType(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if _, err := ParseProviderType("mistral"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestProviderDefaults(t *testing.T) {
	for _, p := range []ProviderType{ProviderOpenAI, ProviderAnthropic, ProviderDeepSeek, ProviderGemini} {
		if p.DefaultModel() == "" {
			t.Errorf("%s has no default model", p)
		}
		if p.EnvVar() == "" {
			t.Errorf("%s has no API key env var", p)
		}
	}
}

func TestFromEnvRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := ProviderOpenAI.FromEnv()
	if err == nil {
		t.Fatal("expected error when API key env var is unset")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("error should name the missing variable: %v", err)
	}
}

func TestBuilderProducesConfiguredProvider(t *testing.T) {
	provider, err := ProviderDeepSeek.Model(ModelDeepSeekReasoner).MaxTokens(1024).Temperature(0.1).APIKey("sk-test")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if provider.Name() != "deepseek" {
		t.Errorf("Name = %q", provider.Name())
	}
	if provider.Model() != ModelDeepSeekReasoner {
		t.Errorf("Model = %q", provider.Model())
	}
}

func TestMessageConstructors(t *testing.T) {
	if m := SystemMessage("s"); m.Role != "system" || m.Content != "s" {
		t.Errorf("SystemMessage = %+v", m)
	}
	if m := UserMessage("u"); m.Role != "user" {
		t.Errorf("UserMessage = %+v", m)
	}
	if m := AssistantMessage("a"); m.Role != "assistant" {
		t.Errorf("AssistantMessage = %+v", m)
	}
}
