package sections

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-go-golems/glazed/pkg/cli"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
	"github.com/go-go-golems/glazed/pkg/cmds/sources"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/marionette/pkg/settings"
)

func TestCreateMarionetteSections(t *testing.T) {
	sections_, err := CreateMarionetteSections()
	if err != nil {
		t.Fatalf("CreateMarionetteSections returned error: %v", err)
	}
	if len(sections_) != len(AllSlugs) {
		t.Fatalf("expected %d sections, got %d", len(AllSlugs), len(sections_))
	}

	schema_ := schema.NewSchema(schema.WithSections(sections_...))
	seen := map[string]bool{}
	err = schema_.ForEachE(func(slug string, _ schema.Section) error {
		seen[slug] = true
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachE returned error: %v", err)
	}
	for _, slug := range AllSlugs {
		if !seen[slug] {
			t.Fatalf("expected schema to contain section %q", slug)
		}
	}
}

func TestGetCobraCommandMarionetteMiddlewares_Precedence(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// The factories block mirrors a settings file and must be skipped by the
	// config mapper instead of being treated as a section.
	configYAML := `factories:
  chat:
    engine: should-not-leak
ai-chat:
  ai-engine: config-engine
`
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		t.Fatalf("WriteFile config returned error: %v", err)
	}

	oldEnv, hadEnv := os.LookupEnv("MARIONETTE_AI_ENGINE")
	defer func() {
		if hadEnv {
			_ = os.Setenv("MARIONETTE_AI_ENGINE", oldEnv)
		} else {
			_ = os.Unsetenv("MARIONETTE_AI_ENGINE")
		}
	}()

	parseEngine := func(args []string, envEngine string) string {
		t.Helper()
		_ = os.Unsetenv("MARIONETTE_AI_ENGINE")
		if envEngine != "" {
			_ = os.Setenv("MARIONETTE_AI_ENGINE", envEngine)
		}

		cmd := &cobra.Command{Use: "test"}
		schema_ := mustMarionetteSchemaWithCommand(t)
		addSchemaFlagsToCommand(t, schema_, cmd)
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("ParseFlags returned error: %v", err)
		}

		parsedCommandSections, err := cli.ParseCommandSettingsSection(cmd)
		if err != nil {
			t.Fatalf("ParseCommandSettingsSection returned error: %v", err)
		}
		middlewares_, err := GetCobraCommandMarionetteMiddlewares(parsedCommandSections, cmd, nil)
		if err != nil {
			t.Fatalf("GetCobraCommandMarionetteMiddlewares returned error: %v", err)
		}

		parsedValues := values.New()
		if err := sources.Execute(schema_, parsedValues, middlewares_...); err != nil {
			t.Fatalf("sources.Execute returned error: %v", err)
		}

		ss, err := settings.NewStepSettingsFromParsedValues(parsedValues)
		if err != nil {
			t.Fatalf("NewStepSettingsFromParsedValues returned error: %v", err)
		}
		if ss.Chat == nil || ss.Chat.Engine == nil {
			t.Fatalf("expected chat engine to be set")
		}
		return *ss.Chat.Engine
	}

	baseArgs := []string{"--config-file", configPath}
	if got := parseEngine(baseArgs, ""); got != "config-engine" {
		t.Fatalf("expected config to override defaults, got %q", got)
	}
	if got := parseEngine(baseArgs, "env-engine"); got != "env-engine" {
		t.Fatalf("expected env to override config, got %q", got)
	}
	if got := parseEngine(append(baseArgs, "--ai-engine", "flag-engine"), "env-engine"); got != "flag-engine" {
		t.Fatalf("expected flags to override env/config, got %q", got)
	}
}

func TestUpdateFromParsedValuesKeepsSettingsFileValues(t *testing.T) {
	settingsYAML := `factories:
  chat:
    engine: yaml-engine
    temperature: 0.7
  client:
    timeout_second: 120
`
	ss, err := settings.NewStepSettingsFromYAML(strings.NewReader(settingsYAML))
	if err != nil {
		t.Fatalf("NewStepSettingsFromYAML returned error: %v", err)
	}

	cmd := &cobra.Command{Use: "test"}
	schema_ := mustMarionetteSchema(t)
	addSchemaFlagsToCommand(t, schema_, cmd)
	if err := cmd.ParseFlags([]string{"--ai-temperature", "0.2"}); err != nil {
		t.Fatalf("ParseFlags returned error: %v", err)
	}

	parsed := values.New()
	err = sources.Execute(
		schema_,
		parsed,
		sources.FromCobra(cmd, fields.WithSource("cobra")),
		sources.FromDefaults(fields.WithSource(fields.SourceDefaults)),
	)
	if err != nil {
		t.Fatalf("sources.Execute returned error: %v", err)
	}

	if err := ss.UpdateFromParsedValues(parsed); err != nil {
		t.Fatalf("UpdateFromParsedValues returned error: %v", err)
	}

	if ss.Chat.Temperature == nil || *ss.Chat.Temperature != 0.2 {
		t.Fatalf("expected flag to override temperature, got %#v", ss.Chat.Temperature)
	}
	if ss.Chat.Engine == nil || *ss.Chat.Engine != "yaml-engine" {
		t.Fatalf("expected settings file engine to survive, got %#v", ss.Chat.Engine)
	}
	if ss.Client.TimeoutSeconds == nil || *ss.Client.TimeoutSeconds != 120 {
		t.Fatalf("expected settings file timeout to survive, got %#v", ss.Client.TimeoutSeconds)
	}
	if ss.Client.Timeout == nil || *ss.Client.Timeout != 120*time.Second {
		t.Fatalf("expected timeout duration to track timeout seconds, got %#v", ss.Client.Timeout)
	}
}

func mustMarionetteSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sections_, err := CreateMarionetteSections()
	if err != nil {
		t.Fatalf("CreateMarionetteSections returned error: %v", err)
	}
	return schema.NewSchema(schema.WithSections(sections_...))
}

func mustMarionetteSchemaWithCommand(t *testing.T) *schema.Schema {
	t.Helper()
	sections_, err := CreateMarionetteSections()
	if err != nil {
		t.Fatalf("CreateMarionetteSections returned error: %v", err)
	}
	commandSection, err := cli.NewCommandSettingsSection()
	if err != nil {
		t.Fatalf("NewCommandSettingsSection returned error: %v", err)
	}
	allSections := append([]schema.Section{}, sections_...)
	allSections = append(allSections, commandSection)
	return schema.NewSchema(schema.WithSections(allSections...))
}

func addSchemaFlagsToCommand(t *testing.T, schema_ *schema.Schema, cmd *cobra.Command) {
	t.Helper()
	err := schema_.ForEachE(func(_ string, section schema.Section) error {
		cobraSection, ok := section.(schema.CobraSection)
		if !ok {
			return nil
		}
		return cobraSection.AddSectionToCobraCommand(cmd)
	})
	if err != nil {
		t.Fatalf("failed to add schema flags to command: %v", err)
	}
}
