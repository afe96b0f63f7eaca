package settings

import (
	"strings"
	"testing"
	"time"
)

func TestNewStepSettingsDefaults(t *testing.T) {
	s := NewStepSettings()
	if s.Chat == nil || s.Client == nil || s.API == nil {
		t.Fatalf("expected all settings sections to be initialized")
	}
	if s.Client.Timeout == nil || *s.Client.Timeout != 60*time.Second {
		t.Fatalf("expected 60s default timeout, got %#v", s.Client.Timeout)
	}
	if s.Chat.Engine != nil {
		t.Fatalf("expected no default engine, got %s", *s.Chat.Engine)
	}
}

func TestNewStepSettingsFromYAML(t *testing.T) {
	yamlDoc := `
factories:
  chat:
    engine: gemini-1.5-flash
    api_type: gemini
    temperature: 0.2
  client:
    timeout: 120
  api:
    api_keys:
      gemini-api-key: test-key
    base_urls:
      ollama-base-url: http://localhost:11434
`
	s, err := NewStepSettingsFromYAML(strings.NewReader(yamlDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Chat.Engine == nil || *s.Chat.Engine != "gemini-1.5-flash" {
		t.Fatalf("expected engine gemini-1.5-flash, got %#v", s.Chat.Engine)
	}
	if s.Chat.ApiType == nil || *s.Chat.ApiType != ApiTypeGemini {
		t.Fatalf("expected api type gemini, got %#v", s.Chat.ApiType)
	}
	if s.Chat.Temperature == nil || *s.Chat.Temperature != 0.2 {
		t.Fatalf("expected temperature 0.2, got %#v", s.Chat.Temperature)
	}
	if s.Client.Timeout == nil || *s.Client.Timeout != 120*time.Second {
		t.Fatalf("expected timeout 120s, got %#v", s.Client.Timeout)
	}
	if s.API.APIKeys["gemini-api-key"] != "test-key" {
		t.Fatalf("expected gemini api key to be loaded")
	}
	if s.API.BaseUrls["ollama-base-url"] != "http://localhost:11434" {
		t.Fatalf("expected ollama base url to be loaded")
	}
}

func TestStepSettingsCloneIsDeep(t *testing.T) {
	s := NewStepSettings()
	engine := "gemini-1.5-flash"
	s.Chat.Engine = &engine
	s.API.APIKeys["gemini-api-key"] = "first"

	c := s.Clone()
	*c.Chat.Engine = "other"
	c.API.APIKeys["gemini-api-key"] = "second"

	if *s.Chat.Engine != "gemini-1.5-flash" {
		t.Fatalf("clone shares engine pointer, got %s", *s.Chat.Engine)
	}
	if s.API.APIKeys["gemini-api-key"] != "first" {
		t.Fatalf("clone shares api key map")
	}
}

func TestGetMetadataSkipsDefaultsAndSecrets(t *testing.T) {
	s := NewStepSettings()
	engine := "gpt-4o-mini"
	temperature := 0.7
	topP := 1.0
	s.Chat.Engine = &engine
	s.Chat.Temperature = &temperature
	s.Chat.TopP = &topP
	s.API.APIKeys["openai-api-key"] = "secret"
	s.API.BaseUrls["openai-base-url"] = "https://api.openai.com/v1"

	m := s.GetMetadata()
	if m["ai-engine"] != "gpt-4o-mini" {
		t.Fatalf("expected engine in metadata, got %#v", m["ai-engine"])
	}
	if m["ai-temperature"] != 0.7 {
		t.Fatalf("expected temperature in metadata, got %#v", m["ai-temperature"])
	}
	if _, ok := m["ai-top-p"]; ok {
		t.Fatalf("expected default top-p to be skipped")
	}
	if m["openai-base-url"] != "https://api.openai.com/v1" {
		t.Fatalf("expected base url in metadata, got %#v", m["openai-base-url"])
	}
	for k, v := range m {
		if v == "secret" {
			t.Fatalf("api key leaked into metadata under %s", k)
		}
	}
}
