package main

import (
	"os"

	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/pkg/errors"

	"github.com/go-go-golems/marionette/pkg/settings"
)

// settingsFileFlag is shared by every command that talks to a provider.
func settingsFileFlag() *fields.Definition {
	return fields.New("settings", fields.TypeString,
		fields.WithHelp("Settings file with chat, client and provider defaults"),
	)
}

// stepSettingsFromValues builds the step settings for a command run. A
// settings file given through --settings is loaded first, parsed flag,
// environment and config file values are applied on top, and missing API keys
// are filled in from the conventional environment variables last.
func stepSettingsFromValues(parsed *values.Values, settingsFile string) (*settings.StepSettings, error) {
	stepSettings := settings.NewStepSettings()
	if settingsFile != "" {
		f, err := os.Open(settingsFile)
		if err != nil {
			return nil, errors.Wrapf(err, "could not open settings file %s", settingsFile)
		}
		defer func() {
			_ = f.Close()
		}()
		stepSettings, err = settings.NewStepSettingsFromYAML(f)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse settings file %s", settingsFile)
		}
	}

	if err := stepSettings.UpdateFromParsedValues(parsed); err != nil {
		return nil, err
	}
	fillAPIKeysFromEnv(stepSettings)

	return stepSettings, nil
}

// fillAPIKeysFromEnv falls back to the provider environment variables for
// keys that were not set through flags, files or MARIONETTE_ variables.
func fillAPIKeysFromEnv(stepSettings *settings.StepSettings) {
	if stepSettings.API == nil {
		return
	}
	if stepSettings.API.APIKeys == nil {
		stepSettings.API.APIKeys = map[string]string{}
	}

	for key, envVar := range map[string]string{
		string(settings.ApiTypeGemini) + "-api-key": "GEMINI_API_KEY",
		string(settings.ApiTypeOpenAI) + "-api-key": "OPENAI_API_KEY",
	} {
		if stepSettings.API.APIKeys[key] != "" {
			continue
		}
		if value := os.Getenv(envVar); value != "" {
			stepSettings.API.APIKeys[key] = value
		}
	}
}
