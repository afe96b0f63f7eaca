package settings

import (
	"io"
	"time"

	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/marionette/pkg/settings/gemini"
	"github.com/go-go-golems/marionette/pkg/settings/ollama"
	"github.com/go-go-golems/marionette/pkg/settings/openai"
)

type factoryConfigFileWrapper struct {
	Factories *StepSettings
}

type StepSettings struct {
	Chat   *ChatSettings    `yaml:"chat,omitempty" json:"chat,omitempty"`
	Client *ClientSettings  `yaml:"client,omitempty" json:"client,omitempty"`
	API    *APISettings     `yaml:"api,omitempty" json:"api,omitempty"`
	Gemini *gemini.Settings `yaml:"gemini,omitempty" json:"gemini,omitempty"`
	OpenAI *openai.Settings `yaml:"openai,omitempty" json:"openai,omitempty"`
	Ollama *ollama.Settings `yaml:"ollama,omitempty" json:"ollama,omitempty"`
}

func NewStepSettings() *StepSettings {
	return &StepSettings{
		Chat:   NewChatSettings(),
		Client: NewClientSettings(),
		API:    NewAPISettings(),
		Gemini: gemini.NewSettings(),
		OpenAI: openai.NewSettings(),
		Ollama: ollama.NewSettings(),
	}
}

func NewStepSettingsFromYAML(s io.Reader) (*StepSettings, error) {
	settings_ := factoryConfigFileWrapper{
		Factories: NewStepSettings(),
	}
	if err := yaml.NewDecoder(s).Decode(&settings_); err != nil {
		return nil, err
	}

	return settings_.Factories, nil
}

// GetMetadata returns the settings worth annotating events and logs with.
// API keys are never included.
func (ss *StepSettings) GetMetadata() map[string]interface{} {
	metadata := make(map[string]interface{})

	if ss.Chat != nil {
		if ss.Chat.Engine != nil {
			metadata["ai-engine"] = *ss.Chat.Engine
		}
		if ss.Chat.ApiType != nil {
			metadata["ai-api-type"] = string(*ss.Chat.ApiType)
		}
		if ss.Chat.MaxResponseTokens != nil {
			metadata["ai-max-response-tokens"] = *ss.Chat.MaxResponseTokens
		}
		if ss.Chat.TopP != nil && *ss.Chat.TopP != 1 {
			metadata["ai-top-p"] = *ss.Chat.TopP
		}
		if ss.Chat.Temperature != nil {
			metadata["ai-temperature"] = *ss.Chat.Temperature
		}
		if len(ss.Chat.Stop) > 0 {
			metadata["ai-stop"] = ss.Chat.Stop
		}
	}

	if ss.Client != nil {
		if ss.Client.Timeout != nil {
			metadata["timeout"] = ss.Client.Timeout.String()
		}
		if ss.Client.TimeoutSeconds != nil {
			metadata["timeout_second"] = *ss.Client.TimeoutSeconds
		}
		if ss.Client.Organization != nil && *ss.Client.Organization != "" {
			metadata["organization"] = *ss.Client.Organization
		}
		if ss.Client.UserAgent != nil {
			metadata["user-agent"] = *ss.Client.UserAgent
		}
		// Note: HTTPClient is not included as it's not a simple scalar value
	}

	if ss.API != nil {
		for provider, baseURL := range ss.API.BaseUrls {
			if baseURL != "" {
				metadata[provider+"-base-url"] = baseURL
			}
		}
	}

	if ss.Gemini != nil {
		if ss.Gemini.CandidateCount != nil && *ss.Gemini.CandidateCount != 1 {
			metadata["gemini-candidate-count"] = *ss.Gemini.CandidateCount
		}
		if ss.Gemini.SafetyThreshold != nil && *ss.Gemini.SafetyThreshold != "" {
			metadata["gemini-safety-threshold"] = *ss.Gemini.SafetyThreshold
		}
	}

	if ss.OpenAI != nil {
		if ss.OpenAI.N != nil && *ss.OpenAI.N != 1 {
			metadata["openai-n"] = *ss.OpenAI.N
		}
		if ss.OpenAI.PresencePenalty != nil && *ss.OpenAI.PresencePenalty != 0 {
			metadata["openai-presence-penalty"] = *ss.OpenAI.PresencePenalty
		}
		if ss.OpenAI.FrequencyPenalty != nil && *ss.OpenAI.FrequencyPenalty != 0 {
			metadata["openai-frequency-penalty"] = *ss.OpenAI.FrequencyPenalty
		}
		if len(ss.OpenAI.LogitBias) > 0 {
			metadata["openai-logit-bias"] = ss.OpenAI.LogitBias
		}
	}

	if ss.Ollama != nil {
		if ss.Ollama.Temperature != nil && *ss.Ollama.Temperature != 0 {
			metadata["ollama-temperature"] = *ss.Ollama.Temperature
		}
		if ss.Ollama.Seed != nil && *ss.Ollama.Seed != 0 {
			metadata["ollama-seed"] = *ss.Ollama.Seed
		}
		if ss.Ollama.Stop != nil && *ss.Ollama.Stop != "" {
			metadata["ollama-stop"] = *ss.Ollama.Stop
		}
		if ss.Ollama.TopK != nil && *ss.Ollama.TopK != 40 {
			metadata["ollama-top-k"] = *ss.Ollama.TopK
		}
		if ss.Ollama.TopP != nil && *ss.Ollama.TopP != 0.9 {
			metadata["ollama-top-p"] = *ss.Ollama.TopP
		}
	}

	return metadata
}

// NewStepSettingsFromParsedValues builds default settings and applies the
// parsed values on top.
func NewStepSettingsFromParsedValues(parsed *values.Values) (*StepSettings, error) {
	ret := NewStepSettings()
	if err := ret.UpdateFromParsedValues(parsed); err != nil {
		return nil, err
	}
	return ret, nil
}

// UpdateFromParsedValues overlays values the user supplied through flags,
// environment variables or config files onto the settings. Only values that
// were actually parsed are applied, so everything the user did not touch
// keeps the value it had, for instance from a settings file loaded earlier.
func (s *StepSettings) UpdateFromParsedValues(parsed *values.Values) error {
	err := parsed.DecodeSectionInto(AiChatSlug, s.Chat)
	if err != nil {
		return err
	}

	err = parsed.DecodeSectionInto(AiClientSlug, s.Client)
	if err != nil {
		return err
	}
	if s.Client.TimeoutSeconds != nil {
		timeout := time.Duration(*s.Client.TimeoutSeconds) * time.Second
		s.Client.Timeout = &timeout
	}

	err = s.updateApiFromParsedValues(parsed)
	if err != nil {
		return err
	}

	err = parsed.DecodeSectionInto(gemini.GeminiChatSlug, s.Gemini)
	if err != nil {
		return err
	}

	err = parsed.DecodeSectionInto(openai.OpenAiChatSlug, s.OpenAI)
	if err != nil {
		return err
	}

	err = parsed.DecodeSectionInto(ollama.OllamaChatSlug, s.Ollama)
	if err != nil {
		return err
	}

	return nil
}

// Keys and base URLs arrive as individual flags but live in the
// provider-keyed maps of APISettings.
func (s *StepSettings) updateApiFromParsedValues(parsed *values.Values) error {
	apiValues := struct {
		GeminiApiKey  string `glazed:"gemini-api-key"`
		OpenaiApiKey  string `glazed:"openai-api-key"`
		GeminiBaseUrl string `glazed:"gemini-base-url"`
		OpenaiBaseUrl string `glazed:"openai-base-url"`
		OllamaBaseUrl string `glazed:"ollama-base-url"`
	}{}
	if err := parsed.DecodeSectionInto(AiApiSlug, &apiValues); err != nil {
		return err
	}

	if s.API.APIKeys == nil {
		s.API.APIKeys = map[string]string{}
	}
	if s.API.BaseUrls == nil {
		s.API.BaseUrls = map[string]string{}
	}

	for key, value := range map[string]string{
		"gemini-api-key": apiValues.GeminiApiKey,
		"openai-api-key": apiValues.OpenaiApiKey,
	} {
		if value != "" {
			s.API.APIKeys[key] = value
		}
	}
	for key, value := range map[string]string{
		"gemini-base-url": apiValues.GeminiBaseUrl,
		"openai-base-url": apiValues.OpenaiBaseUrl,
		"ollama-base-url": apiValues.OllamaBaseUrl,
	} {
		if value != "" {
			s.API.BaseUrls[key] = value
		}
	}

	return nil
}

func (s *StepSettings) Clone() *StepSettings {
	return &StepSettings{
		Chat:   s.Chat.Clone(),
		Client: s.Client.Clone(),
		API:    s.API.Clone(),
		Gemini: s.Gemini.Clone(),
		OpenAI: s.OpenAI.Clone(),
		Ollama: s.Ollama.Clone(),
	}
}
