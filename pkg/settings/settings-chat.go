package settings

import (
	"github.com/huandu/go-clone"
)

type ApiType string

const (
	ApiTypeGemini ApiType = "gemini"
	ApiTypeOpenAI ApiType = "openai"
	ApiTypeOllama ApiType = "ollama"
)

type ChatSettings struct {
	Engine            *string  `yaml:"engine,omitempty" json:"engine,omitempty" glazed:"ai-engine"`
	ApiType           *ApiType `yaml:"api_type,omitempty" json:"api_type,omitempty" glazed:"ai-api-type"`
	MaxResponseTokens *int     `yaml:"max_response_tokens,omitempty" json:"max_response_tokens,omitempty" glazed:"ai-max-response-tokens"`
	TopP              *float64 `yaml:"top_p,omitempty" json:"top_p,omitempty" glazed:"ai-top-p"`
	Temperature       *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty" glazed:"ai-temperature"`
	Stop              []string `yaml:"stop,omitempty" json:"stop,omitempty" glazed:"ai-stop"`
	// SystemPrompt is prepended client-side when building provider requests,
	// it never shows up in the controller history.
	SystemPrompt *string `yaml:"system_prompt,omitempty" json:"system_prompt,omitempty" glazed:"ai-system-prompt"`
}

func NewChatSettings() *ChatSettings {
	return &ChatSettings{
		Engine:            nil,
		ApiType:           nil,
		MaxResponseTokens: nil,
		TopP:              nil,
		Temperature:       nil,
		Stop:              []string{},
		SystemPrompt:      nil,
	}
}

func (s *ChatSettings) Clone() *ChatSettings {
	return clone.Clone(s).(*ChatSettings)
}
