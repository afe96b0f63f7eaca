package gemini

import (
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
	"github.com/huandu/go-clone"
)

type Settings struct {
	// How many candidates to generate for each prompt
	CandidateCount *int `yaml:"candidate_count,omitempty" json:"candidate_count,omitempty" glazed:"gemini-candidate-count"`
	// SafetyThreshold applied to all harm categories (none, few, some, most)
	SafetyThreshold *string `yaml:"safety_threshold,omitempty" json:"safety_threshold,omitempty" glazed:"gemini-safety-threshold"`
}

func NewSettings() *Settings {
	return &Settings{}
}

func (s *Settings) Clone() *Settings {
	return clone.Clone(s).(*Settings)
}

const GeminiChatSlug = "gemini-chat"

type ValueSection struct {
	*schema.SectionImpl `yaml:",inline"`
}

func NewValueSection(options ...schema.SectionOption) (*ValueSection, error) {
	ret, err := schema.NewSection(
		GeminiChatSlug,
		"Gemini chat options",
		append([]schema.SectionOption{
			schema.WithFields(
				fields.New("gemini-candidate-count", fields.TypeInteger,
					fields.WithHelp("Number of candidates to generate")),
				fields.New("gemini-safety-threshold", fields.TypeChoice,
					fields.WithChoices("none", "few", "some", "most"),
					fields.WithHelp("How much gets blocked across all harm categories")),
			),
		}, options...)...,
	)
	if err != nil {
		return nil, err
	}

	return &ValueSection{SectionImpl: ret}, nil
}
