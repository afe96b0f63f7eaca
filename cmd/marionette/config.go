package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-go-golems/glazed/pkg/cli"
	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/marionette/pkg/parse"
	"github.com/go-go-golems/marionette/pkg/settings"
)

type ConfigSchemaCommand struct {
	*cmds.CommandDescription
}

var _ cmds.WriterCommand = (*ConfigSchemaCommand)(nil)

func NewConfigSchemaCommand() (*ConfigSchemaCommand, error) {
	return &ConfigSchemaCommand{
		CommandDescription: cmds.NewCommandDescription(
			"schema",
			cmds.WithShort("Print the JSON schema for settings files"),
		),
	}, nil
}

func (c *ConfigSchemaCommand) RunIntoWriter(ctx context.Context, parsedValues *values.Values, w io.Writer) error {
	schemaJSON, err := stepSettingsSchema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(schemaJSON))
	return err
}

// stepSettingsSchema reflects the settings structure into a JSON schema.
// References are inlined and the $schema marker dropped so that the result
// stays within the drafts gojsonschema understands.
func stepSettingsSchema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
	}
	s := reflector.Reflect(&settings.StepSettings{})
	s.Version = ""
	return json.MarshalIndent(s, "", "  ")
}

type ConfigValidateCommand struct {
	*cmds.CommandDescription
}

var _ cmds.WriterCommand = (*ConfigValidateCommand)(nil)

type configValidateSettings struct {
	File string `glazed:"file"`
}

func NewConfigValidateCommand() (*ConfigValidateCommand, error) {
	return &ConfigValidateCommand{
		CommandDescription: cmds.NewCommandDescription(
			"validate",
			cmds.WithShort("Validate a settings file against the schema"),
			cmds.WithFlags(
				fields.New("file", fields.TypeString,
					fields.WithHelp("Settings file to validate, - for stdin"),
					fields.WithRequired(true),
				),
			),
		),
	}, nil
}

func (c *ConfigValidateCommand) RunIntoWriter(ctx context.Context, parsedValues *values.Values, w io.Writer) error {
	s := &configValidateSettings{}
	if err := parsedValues.DecodeSectionInto(values.DefaultSlug, s); err != nil {
		return err
	}

	text, err := readFileOrStdin(s.File)
	if err != nil {
		return err
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return errors.Wrapf(err, "could not parse %s", s.File)
	}

	// a config file may wrap the settings in a factories block
	if factories, ok := doc["factories"].(map[string]interface{}); ok {
		doc = factories
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	schemaJSON, err := stepSettingsSchema()
	if err != nil {
		return err
	}

	result, err := parse.ValidateJSON(string(schemaJSON), string(docJSON))
	if err != nil {
		return err
	}

	if !result.Valid {
		if _, err := fmt.Fprintln(w, result.ValidationErrors); err != nil {
			return err
		}
		return errors.Errorf("%s is not a valid settings file", s.File)
	}

	_, err = fmt.Fprintf(w, "%s is valid\n", s.File)
	return err
}

func registerConfigCommands(rootCmd *cobra.Command) {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate settings files",
	}

	schemaCmdInstance, err := NewConfigSchemaCommand()
	cobra.CheckErr(err)
	schemaCommand, err := cli.BuildCobraCommand(schemaCmdInstance)
	cobra.CheckErr(err)
	configCmd.AddCommand(schemaCommand)

	validateCmdInstance, err := NewConfigValidateCommand()
	cobra.CheckErr(err)
	validateCommand, err := cli.BuildCobraCommand(validateCmdInstance)
	cobra.CheckErr(err)
	configCmd.AddCommand(validateCommand)

	rootCmd.AddCommand(configCmd)
}
