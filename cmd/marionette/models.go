package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/mb0/glob"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/marionette/pkg/completion/ollama"
	"github.com/go-go-golems/marionette/pkg/completion/openai"
	"github.com/go-go-golems/marionette/pkg/sections"
	"github.com/go-go-golems/marionette/pkg/settings"
)

type ModelsCommand struct {
	*cmds.CommandDescription
}

var _ cmds.WriterCommand = (*ModelsCommand)(nil)

type modelsSettings struct {
	Settings string `glazed:"settings"`
	Provider string `glazed:"provider"`
	ID       string `glazed:"id"`
}

func NewModelsCommand() (*ModelsCommand, error) {
	marionetteSections, err := sections.CreateMarionetteSections()
	if err != nil {
		return nil, err
	}

	return &ModelsCommand{
		CommandDescription: cmds.NewCommandDescription(
			"models",
			cmds.WithShort("List the models the configured providers serve"),
			cmds.WithFlags(
				settingsFileFlag(),
				fields.New("provider", fields.TypeChoice,
					fields.WithHelp("Only list models from this provider"),
					fields.WithChoices("all", "gemini", "openai", "ollama"),
					fields.WithDefault("all"),
				),
				fields.New("id", fields.TypeString,
					fields.WithHelp("Glob pattern to filter model ids"),
				),
			),
			cmds.WithSections(marionetteSections...),
		),
	}, nil
}

type modelRow struct {
	provider string
	id       string
	details  string
}

func (c *ModelsCommand) RunIntoWriter(ctx context.Context, parsedValues *values.Values, w io.Writer) error {
	s := &modelsSettings{}
	if err := parsedValues.DecodeSectionInto(values.DefaultSlug, s); err != nil {
		return err
	}

	stepSettings, err := stepSettingsFromValues(parsedValues, s.Settings)
	if err != nil {
		return err
	}

	providers := []string{"gemini", "openai", "ollama"}
	if s.Provider != "all" {
		providers = []string{s.Provider}
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tMODEL\tDETAILS")

	for _, provider := range providers {
		var rows []modelRow
		var err error
		switch provider {
		case "gemini":
			rows = geminiModelRows()
		case "openai":
			rows, err = listOpenAIModels(ctx, stepSettings)
		case "ollama":
			rows, err = listOllamaModels(ctx, stepSettings)
		}
		if err != nil {
			// a single provider was asked for, so its failure is the answer
			if s.Provider != "all" {
				return err
			}
			log.Warn().Err(err).Str("provider", provider).Msg("skipping provider")
			continue
		}

		for _, row := range rows {
			if s.ID != "" {
				matching, err := glob.Match(s.ID, row.id)
				if err != nil {
					return err
				}
				if !matching {
					continue
				}
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", row.provider, row.id, row.details)
		}
	}

	return tw.Flush()
}

// The gemini list is static, the generative language API serves a small
// fixed set of chat models.
func geminiModelRows() []modelRow {
	return []modelRow{
		{provider: "gemini", id: "gemini-1.5-pro", details: "long context"},
		{provider: "gemini", id: "gemini-1.5-flash", details: "fast"},
		{provider: "gemini", id: "gemini-1.0-pro", details: "text and chat"},
		{provider: "gemini", id: "gemini-pro", details: "alias for gemini-1.0-pro"},
		{provider: "gemini", id: "gemini-pro-vision", details: "text and image input"},
	}
}

func listOpenAIModels(ctx context.Context, stepSettings *settings.StepSettings) ([]modelRow, error) {
	client, err := openai.NewAPIClient(stepSettings)
	if err != nil {
		return nil, err
	}

	resp, err := client.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]modelRow, 0, len(resp.Models))
	for _, m := range resp.Models {
		rows = append(rows, modelRow{provider: "openai", id: m.ID, details: m.OwnedBy})
	}
	return rows, nil
}

func listOllamaModels(ctx context.Context, stepSettings *settings.StepSettings) ([]modelRow, error) {
	client, err := ollama.NewAPIClient(stepSettings)
	if err != nil {
		return nil, err
	}

	resp, err := client.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]modelRow, 0, len(resp.Models))
	for _, m := range resp.Models {
		details := fmt.Sprintf("%d MB", m.Size/(1024*1024))
		rows = append(rows, modelRow{provider: "ollama", id: m.Name, details: details})
	}
	return rows, nil
}
