package factory

import (
	"github.com/go-go-golems/glazed/pkg/cmds/values"

	"github.com/go-go-golems/marionette/pkg/completion"
	"github.com/go-go-golems/marionette/pkg/settings"
)

// NewClientFromStepSettings creates a client directly from step settings.
// This is a convenience function that creates a StandardClientFactory and uses it to create a client.
func NewClientFromStepSettings(stepSettings *settings.StepSettings) (completion.Client, error) {
	factory := NewStandardClientFactory()
	return factory.CreateClient(stepSettings)
}

// NewClientFromParsedValues creates a client from parsed values.
// This is a convenience function that:
// 1. Creates new step settings
// 2. Updates them from the parsed values
// 3. Creates and returns a client
func NewClientFromParsedValues(parsed *values.Values) (completion.Client, error) {
	stepSettings, err := settings.NewStepSettingsFromParsedValues(parsed)
	if err != nil {
		return nil, err
	}

	return NewClientFromStepSettings(stepSettings)
}
