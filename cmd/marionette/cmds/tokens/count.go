package tokens

import (
	"context"
	"fmt"
	"io"

	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
)

type CountCommand struct {
	*cmds.CommandDescription
}

var _ cmds.WriterCommand = (*CountCommand)(nil)

type countSettings struct {
	Model string `glazed:"model"`
	Codec string `glazed:"codec"`
	Text  string `glazed:"text"`
	File  string `glazed:"file"`
}

func NewCountCommand() (*CountCommand, error) {
	return &CountCommand{
		CommandDescription: cmds.NewCommandDescription(
			"count",
			cmds.WithShort("Count tokens using a specific model and codec"),
			cmds.WithFlags(
				fields.New("model", fields.TypeString,
					fields.WithHelp("Model used for encoding"),
					fields.WithDefault("gpt-4"),
				),
				fields.New("codec", fields.TypeString,
					fields.WithHelp("Codec used for encoding"),
				),
				fields.New("text", fields.TypeString,
					fields.WithHelp("Text to tokenize"),
				),
				fields.New("file", fields.TypeString,
					fields.WithHelp("Read the text from a file, - for stdin"),
				),
			),
		),
	}, nil
}

func (cc *CountCommand) RunIntoWriter(ctx context.Context, parsedValues *values.Values, w io.Writer) error {
	s := &countSettings{}
	if err := parsedValues.DecodeSectionInto(values.DefaultSlug, s); err != nil {
		return err
	}

	codecStr := s.Codec
	if codecStr == "" {
		codecStr = getDefaultEncoding(s.Model)
	}

	input, err := readInput(s.Text, s.File)
	if err != nil {
		return err
	}

	codec, err := getCodec(s.Model, s.Codec)
	if err != nil {
		return err
	}

	ids, _, err := codec.Encode(input)
	if err != nil {
		return fmt.Errorf("error encoding input: %v", err)
	}

	_, err = fmt.Fprintf(w, "Model: %s\nCodec: %s\nTotal tokens: %d\n", s.Model, codecStr, len(ids))
	return err
}
