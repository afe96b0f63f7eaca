package ollama

import (
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
	"github.com/huandu/go-clone"
)

// Settings mirror the option names the ollama server understands. The yaml
// tags double as the option keys sent over the wire, so they use the
// underscore form from the ollama Modelfile documentation.
type Settings struct {
	NumCtx      *int     `yaml:"num_ctx,omitempty" json:"num_ctx,omitempty" glazed:"ollama-num-ctx"`
	Temperature *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty" glazed:"ollama-temperature"`
	Seed        *int     `yaml:"seed,omitempty" json:"seed,omitempty" glazed:"ollama-seed"`
	Stop        *string  `yaml:"stop,omitempty" json:"stop,omitempty" glazed:"ollama-stop"`
	TopK        *int     `yaml:"top_k,omitempty" json:"top_k,omitempty" glazed:"ollama-top-k"`
	TopP        *float64 `yaml:"top_p,omitempty" json:"top_p,omitempty" glazed:"ollama-top-p"`
}

func NewSettings() *Settings {
	return &Settings{}
}

func (s *Settings) Clone() *Settings {
	return clone.Clone(s).(*Settings)
}

const OllamaChatSlug = "ollama-chat"

type ValueSection struct {
	*schema.SectionImpl `yaml:",inline"`
}

func NewValueSection(options ...schema.SectionOption) (*ValueSection, error) {
	ret, err := schema.NewSection(
		OllamaChatSlug,
		"Ollama chat options",
		append([]schema.SectionOption{
			schema.WithFields(
				fields.New("ollama-num-ctx", fields.TypeInteger,
					fields.WithHelp("Context window size in tokens")),
				fields.New("ollama-temperature", fields.TypeFloat,
					fields.WithHelp("Sampling temperature")),
				fields.New("ollama-seed", fields.TypeInteger,
					fields.WithHelp("Seed for deterministic sampling")),
				fields.New("ollama-stop", fields.TypeString,
					fields.WithHelp("Stop sequence that ends the reply")),
				fields.New("ollama-top-k", fields.TypeInteger,
					fields.WithHelp("Top-k sampling cutoff")),
				fields.New("ollama-top-p", fields.TypeFloat,
					fields.WithHelp("Nucleus sampling cutoff")),
			),
		}, options...)...,
	)
	if err != nil {
		return nil, err
	}

	return &ValueSection{SectionImpl: ret}, nil
}
