package factory

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/go-go-golems/marionette/pkg/completion"
	"github.com/go-go-golems/marionette/pkg/completion/gemini"
	"github.com/go-go-golems/marionette/pkg/completion/ollama"
	"github.com/go-go-golems/marionette/pkg/completion/openai"
	"github.com/go-go-golems/marionette/pkg/security"
	"github.com/go-go-golems/marionette/pkg/settings"
)

// ClientFactory creates completion clients from step settings.
type ClientFactory interface {
	CreateClient(stepSettings *settings.StepSettings) (completion.Client, error)
	SupportedProviders() []string
	DefaultProvider() string
}

// StandardClientFactory resolves the provider from the settings API type and
// validates the provider-specific requirements before handing out a client.
type StandardClientFactory struct{}

func NewStandardClientFactory() *StandardClientFactory {
	return &StandardClientFactory{}
}

var _ ClientFactory = (*StandardClientFactory)(nil)

func (f *StandardClientFactory) CreateClient(stepSettings *settings.StepSettings) (completion.Client, error) {
	if stepSettings == nil || stepSettings.Chat == nil {
		return nil, errors.New("no settings provided")
	}

	provider := f.DefaultProvider()
	if stepSettings.Chat.ApiType != nil {
		provider = strings.ToLower(string(*stepSettings.Chat.ApiType))
	}

	switch provider {
	case string(settings.ApiTypeGemini):
		if err := validateSettings(stepSettings, provider, true); err != nil {
			return nil, errors.Wrapf(err, "invalid settings for provider %s", provider)
		}
		return gemini.NewClient(stepSettings)
	case string(settings.ApiTypeOpenAI):
		if err := validateSettings(stepSettings, provider, true); err != nil {
			return nil, errors.Wrapf(err, "invalid settings for provider %s", provider)
		}
		return openai.NewClient(stepSettings)
	case string(settings.ApiTypeOllama):
		if err := validateSettings(stepSettings, provider, false); err != nil {
			return nil, errors.Wrapf(err, "invalid settings for provider %s", provider)
		}
		return ollama.NewClient(stepSettings)
	default:
		return nil, errors.Errorf("unsupported provider %s. Supported providers: %s",
			provider, strings.Join(f.SupportedProviders(), ", "))
	}
}

func (f *StandardClientFactory) SupportedProviders() []string {
	return []string{
		string(settings.ApiTypeGemini),
		string(settings.ApiTypeOpenAI),
		string(settings.ApiTypeOllama),
	}
}

func (f *StandardClientFactory) DefaultProvider() string {
	return string(settings.ApiTypeGemini)
}

func validateSettings(stepSettings *settings.StepSettings, provider string, requireKey bool) error {
	if stepSettings.Chat.Engine == nil || *stepSettings.Chat.Engine == "" {
		return errors.New("no engine specified")
	}
	if requireKey {
		if stepSettings.API == nil || stepSettings.API.APIKeys[provider+"-api-key"] == "" {
			return errors.Errorf("no API key %s-api-key", provider)
		}
	}
	if stepSettings.API != nil {
		if baseURL := stepSettings.API.BaseUrls[provider+"-base-url"]; baseURL != "" {
			if err := security.ValidateBaseURL(provider, baseURL); err != nil {
				return errors.Wrapf(err, "invalid base URL for provider %s", provider)
			}
		}
	}
	return nil
}
