package sections

import (
	"fmt"

	"github.com/go-go-golems/glazed/pkg/cli"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
	"github.com/go-go-golems/glazed/pkg/cmds/sources"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	glazedConfig "github.com/go-go-golems/glazed/pkg/config"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/marionette/pkg/settings"
	"github.com/go-go-golems/marionette/pkg/settings/gemini"
	"github.com/go-go-golems/marionette/pkg/settings/ollama"
	"github.com/go-go-golems/marionette/pkg/settings/openai"
)

// AllSlugs lists the section slugs produced by CreateMarionetteSections,
// in the order the sections are returned.
var AllSlugs = []string{
	settings.AiChatSlug,
	settings.AiClientSlug,
	settings.AiApiSlug,
	gemini.GeminiChatSlug,
	openai.OpenAiChatSlug,
	ollama.OllamaChatSlug,
}

// CreateMarionetteSections returns the settings sections shared by every AI
// command: the generic chat and client sections, the API credentials section
// and one section per provider.
//
// The sections carry no defaults. Defaults live in settings.NewStepSettings,
// and values only reach the parse when the user provides them, which keeps
// UpdateFromParsedValues from clobbering a settings file loaded earlier.
func CreateMarionetteSections() ([]schema.Section, error) {
	chatSection, err := settings.NewChatValueSection()
	if err != nil {
		return nil, err
	}

	clientSection, err := settings.NewClientValueSection()
	if err != nil {
		return nil, err
	}

	apiSection, err := settings.NewApiValueSection()
	if err != nil {
		return nil, err
	}

	geminiSection, err := gemini.NewValueSection()
	if err != nil {
		return nil, err
	}

	openaiSection, err := openai.NewValueSection()
	if err != nil {
		return nil, err
	}

	ollamaSection, err := ollama.NewValueSection()
	if err != nil {
		return nil, err
	}

	return []schema.Section{
		chatSection,
		clientSection,
		apiSection,
		geminiSection,
		openaiSection,
		ollamaSection,
	}, nil
}

// GetCobraCommandMarionetteMiddlewares builds the middleware chain for AI
// commands. Precedence from highest to lowest: command-line flags, positional
// arguments, MARIONETTE_* environment variables, config files, defaults.
func GetCobraCommandMarionetteMiddlewares(
	parsedCommandSections *values.Values,
	cmd *cobra.Command,
	args []string,
) ([]sources.Middleware, error) {
	// Mapper to filter out non-section keys. A config file may double as a
	// factories settings file, so the "factories" key is skipped here and
	// left to settings.NewStepSettingsFromYAML.
	configMapper := func(rawConfig interface{}) (map[string]map[string]interface{}, error) {
		configMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("expected map[string]interface{}, got %T", rawConfig)
		}

		result := make(map[string]map[string]interface{})

		excludedKeys := map[string]bool{
			"factories": true,
		}

		for key, value := range configMap {
			if excludedKeys[key] {
				continue
			}

			// If the value is a map, treat the key as a section slug
			if sectionValues, ok := value.(map[string]interface{}); ok {
				result[key] = sectionValues
			}
		}

		return result, nil
	}

	// Bootstrap parse: resolve the --config flag from Cobra + env + defaults
	// before the main chain runs, so config files can feed that chain.
	//
	// parsedCommandSections (from cli.ParseCommandSettingsLayer) is Cobra-only.
	// It stays around as a fallback source of command settings.
	commandSettings := &cli.CommandSettings{}
	commandSettingsSection, err := cli.NewCommandSettingsSection()
	if err != nil {
		return nil, err
	}
	bootstrapCommandSchema := schema.NewSchema(schema.WithSections(commandSettingsSection))
	bootstrapCommandParsed := values.New()
	err = sources.Execute(
		bootstrapCommandSchema,
		bootstrapCommandParsed,
		sources.FromCobra(cmd, fields.WithSource("cobra")),
		sources.FromEnv("MARIONETTE", fields.WithSource("env")),
		sources.FromDefaults(fields.WithSource(fields.SourceDefaults)),
	)
	if err != nil {
		return nil, err
	}
	if err := bootstrapCommandParsed.DecodeSectionInto(cli.CommandSettingsSlug, commandSettings); err != nil {
		return nil, err
	}
	if commandSettings.ConfigFile == "" && parsedCommandSections != nil {
		_ = parsedCommandSections.DecodeSectionInto(cli.CommandSettingsSlug, commandSettings)
	}

	// Resolve config files once, low to high precedence.
	var configFiles []string
	configPath, err := glazedConfig.ResolveAppConfigPath("marionette", "")
	if err == nil && configPath != "" {
		configFiles = append(configFiles, configPath)
	}
	if commandSettings.ConfigFile != "" {
		configFiles = append(configFiles, commandSettings.ConfigFile)
	}

	// Build middleware chain in reverse precedence order (last applied has
	// highest precedence).
	middlewares_ := []sources.Middleware{
		sources.FromCobra(cmd,
			fields.WithSource("cobra"),
		),
		sources.FromArgs(args,
			fields.WithSource("arguments"),
		),
	}

	// Environment variables (MARIONETTE_*), restricted to the AI sections so
	// unrelated environment noise cannot leak into other sections.
	middlewares_ = append(middlewares_,
		sources.WrapWithWhitelistedSections(
			AllSlugs,
			sources.FromEnv("MARIONETTE",
				fields.WithSource("env"),
			),
		),
	)

	middlewares_ = append(middlewares_, sources.FromFiles(
		configFiles,
		sources.WithConfigFileMapper(configMapper),
		sources.WithParseOptions(fields.WithSource("config")),
	))

	middlewares_ = append(middlewares_,
		sources.FromDefaults(fields.WithSource(fields.SourceDefaults)),
	)

	return middlewares_, nil
}
