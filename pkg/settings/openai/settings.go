package openai

import (
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
	"github.com/huandu/go-clone"
)

type Settings struct {
	// How many choice to create for each prompt
	N *int `yaml:"n,omitempty" json:"n,omitempty" glazed:"openai-n"`
	// PresencePenalty to use
	PresencePenalty *float64 `yaml:"presence_penalty,omitempty" json:"presence_penalty,omitempty" glazed:"openai-presence-penalty"`
	// FrequencyPenalty to use
	FrequencyPenalty *float64 `yaml:"frequency_penalty,omitempty" json:"frequency_penalty,omitempty" glazed:"openai-frequency-penalty"`
	// LogitBias to use
	LogitBias map[string]string `yaml:"logit_bias,omitempty" json:"logit_bias,omitempty" glazed:"openai-logit-bias"`
}

func NewSettings() *Settings {
	return &Settings{
		N:                nil,
		PresencePenalty:  nil,
		FrequencyPenalty: nil,
		LogitBias:        map[string]string{},
	}
}

func (s *Settings) Clone() *Settings {
	return clone.Clone(s).(*Settings)
}

const OpenAiChatSlug = "openai-chat"

type ValueSection struct {
	*schema.SectionImpl `yaml:",inline"`
}

// NewValueSection returns the openai flag section. LogitBias is a map and has
// no flag representation; it can only be set through a settings file.
func NewValueSection(options ...schema.SectionOption) (*ValueSection, error) {
	ret, err := schema.NewSection(
		OpenAiChatSlug,
		"OpenAI chat options",
		append([]schema.SectionOption{
			schema.WithFields(
				fields.New("openai-n", fields.TypeInteger,
					fields.WithHelp("Number of choices to generate")),
				fields.New("openai-presence-penalty", fields.TypeFloat,
					fields.WithHelp("Penalty for tokens already present in the conversation")),
				fields.New("openai-frequency-penalty", fields.TypeFloat,
					fields.WithHelp("Penalty for token frequency in the conversation")),
			),
		}, options...)...,
	)
	if err != nil {
		return nil, err
	}

	return &ValueSection{SectionImpl: ret}, nil
}
