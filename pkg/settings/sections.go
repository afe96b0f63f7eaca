package settings

import (
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
)

const AiChatSlug = "ai-chat"

type ChatValueSection struct {
	*schema.SectionImpl `yaml:",inline"`
}

// NewChatValueSection returns the flag section for the generic chat settings.
// The fields carry no defaults on purpose: a value only enters the parse when
// the user provides one, so settings files loaded underneath are not clobbered.
func NewChatValueSection(options ...schema.SectionOption) (*ChatValueSection, error) {
	ret, err := schema.NewSection(
		AiChatSlug,
		"AI chat completion options",
		append([]schema.SectionOption{
			schema.WithFields(
				fields.New("ai-engine", fields.TypeString,
					fields.WithHelp("Model engine to complete with")),
				fields.New("ai-api-type", fields.TypeChoice,
					fields.WithChoices(string(ApiTypeGemini), string(ApiTypeOpenAI), string(ApiTypeOllama)),
					fields.WithHelp("Provider to send completions to")),
				fields.New("ai-max-response-tokens", fields.TypeInteger,
					fields.WithHelp("Maximum number of tokens in the reply")),
				fields.New("ai-temperature", fields.TypeFloat,
					fields.WithHelp("Sampling temperature")),
				fields.New("ai-top-p", fields.TypeFloat,
					fields.WithHelp("Nucleus sampling cutoff")),
				fields.New("ai-stop", fields.TypeStringList,
					fields.WithHelp("Stop sequences that end the reply")),
				fields.New("ai-system-prompt", fields.TypeString,
					fields.WithHelp("System prompt prepended to every request")),
			),
		}, options...)...,
	)
	if err != nil {
		return nil, err
	}

	return &ChatValueSection{SectionImpl: ret}, nil
}

const AiClientSlug = "ai-client"

type ClientValueSection struct {
	*schema.SectionImpl `yaml:",inline"`
}

func NewClientValueSection(options ...schema.SectionOption) (*ClientValueSection, error) {
	ret, err := schema.NewSection(
		AiClientSlug,
		"AI client options",
		append([]schema.SectionOption{
			schema.WithFields(
				fields.New("timeout", fields.TypeInteger,
					fields.WithHelp("Request timeout in seconds")),
				fields.New("organization", fields.TypeString,
					fields.WithHelp("Organization passed to providers that support it")),
				fields.New("user-agent", fields.TypeString,
					fields.WithHelp("User agent sent with requests")),
			),
		}, options...)...,
	)
	if err != nil {
		return nil, err
	}

	return &ClientValueSection{SectionImpl: ret}, nil
}

const AiApiSlug = "ai-api"

type ApiValueSection struct {
	*schema.SectionImpl `yaml:",inline"`
}

func NewApiValueSection(options ...schema.SectionOption) (*ApiValueSection, error) {
	ret, err := schema.NewSection(
		AiApiSlug,
		"AI API credentials and endpoints",
		append([]schema.SectionOption{
			schema.WithFields(
				fields.New("gemini-api-key", fields.TypeString,
					fields.WithHelp("API key for the Gemini API")),
				fields.New("openai-api-key", fields.TypeString,
					fields.WithHelp("API key for the OpenAI API")),
				fields.New("gemini-base-url", fields.TypeString,
					fields.WithHelp("Endpoint override for the Gemini API")),
				fields.New("openai-base-url", fields.TypeString,
					fields.WithHelp("Endpoint override for the OpenAI API")),
				fields.New("ollama-base-url", fields.TypeString,
					fields.WithHelp("Endpoint of the ollama server")),
			),
		}, options...)...,
	)
	if err != nil {
		return nil, err
	}

	return &ApiValueSection{SectionImpl: ret}, nil
}
