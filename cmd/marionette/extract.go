package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/pkg/errors"

	"github.com/go-go-golems/marionette/pkg/parse"
)

type ExtractCommand struct {
	*cmds.CommandDescription
}

var _ cmds.WriterCommand = (*ExtractCommand)(nil)

type extractSettings struct {
	File     string   `glazed:"file"`
	Language []string `glazed:"language"`
	YAML     bool     `glazed:"yaml"`
	JSON     bool     `glazed:"json"`
}

func NewExtractCommand() (*ExtractCommand, error) {
	return &ExtractCommand{
		CommandDescription: cmds.NewCommandDescription(
			"extract",
			cmds.WithShort("Extract code blocks from a markdown document"),
			cmds.WithFlags(
				fields.New("file", fields.TypeString,
					fields.WithHelp("Markdown file to read, - for stdin"),
					fields.WithDefault("-"),
				),
				fields.New("language", fields.TypeStringList,
					fields.WithHelp("Only keep code blocks in these languages"),
				),
				fields.New("yaml", fields.TypeBool,
					fields.WithHelp("Extract YAML blocks only"),
					fields.WithDefault(false),
				),
				fields.New("json", fields.TypeBool,
					fields.WithHelp("Extract JSON blocks only"),
					fields.WithDefault(false),
				),
			),
		),
	}, nil
}

func (c *ExtractCommand) RunIntoWriter(ctx context.Context, parsedValues *values.Values, w io.Writer) error {
	s := &extractSettings{}
	if err := parsedValues.DecodeSectionInto(values.DefaultSlug, s); err != nil {
		return err
	}

	if s.YAML && s.JSON {
		return errors.New("--yaml and --json are mutually exclusive")
	}

	text, err := readFileOrStdin(s.File)
	if err != nil {
		return err
	}

	var blocks []string
	switch {
	case s.YAML:
		blocks, err = parse.ExtractYAMLBlocks(text)
	case s.JSON:
		blocks = parse.ExtractJSONBlocks(text)
	default:
		blocks, err = parse.ExtractCodeBlocks(text, s.Language...)
	}
	if err != nil {
		return err
	}

	for idx, block := range blocks {
		if idx > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(block, "\n")); err != nil {
			return err
		}
	}

	return nil
}
