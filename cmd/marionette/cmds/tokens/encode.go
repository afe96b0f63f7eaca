package tokens

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
)

type EncodeCommand struct {
	*cmds.CommandDescription
}

var _ cmds.WriterCommand = (*EncodeCommand)(nil)

type encodeSettings struct {
	Model string `glazed:"model"`
	Codec string `glazed:"codec"`
	Text  string `glazed:"text"`
	File  string `glazed:"file"`
}

func NewEncodeCommand() (*EncodeCommand, error) {
	return &EncodeCommand{
		CommandDescription: cmds.NewCommandDescription(
			"encode",
			cmds.WithShort("Encode text into token ids"),
			cmds.WithFlags(
				fields.New("model", fields.TypeString,
					fields.WithHelp("Model used for encoding"),
					fields.WithDefault("gpt-4"),
				),
				fields.New("codec", fields.TypeString,
					fields.WithHelp("Codec used for encoding"),
				),
				fields.New("text", fields.TypeString,
					fields.WithHelp("Text to encode"),
				),
				fields.New("file", fields.TypeString,
					fields.WithHelp("Read the text from a file, - for stdin"),
				),
			),
		),
	}, nil
}

func (cmd *EncodeCommand) RunIntoWriter(ctx context.Context, parsedValues *values.Values, w io.Writer) error {
	s := &encodeSettings{}
	if err := parsedValues.DecodeSectionInto(values.DefaultSlug, s); err != nil {
		return err
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
		return fmt.Errorf("error encoding: %v", err)
	}

	textIds := make([]string, 0, len(ids))
	for _, id := range ids {
		textIds = append(textIds, strconv.Itoa(int(id)))
	}

	_, err = fmt.Fprintln(w, strings.Join(textIds, " "))
	return err
}
