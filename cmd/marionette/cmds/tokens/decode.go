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

type DecodeCommand struct {
	*cmds.CommandDescription
}

var _ cmds.WriterCommand = (*DecodeCommand)(nil)

type decodeSettings struct {
	Model string `glazed:"model"`
	Codec string `glazed:"codec"`
	Text  string `glazed:"text"`
	File  string `glazed:"file"`
}

func NewDecodeCommand() (*DecodeCommand, error) {
	return &DecodeCommand{
		CommandDescription: cmds.NewCommandDescription(
			"decode",
			cmds.WithShort("Decode space separated token ids back into text"),
			cmds.WithFlags(
				fields.New("model", fields.TypeString,
					fields.WithHelp("Model used for decoding"),
					fields.WithDefault("gpt-4"),
				),
				fields.New("codec", fields.TypeString,
					fields.WithHelp("Codec used for decoding"),
				),
				fields.New("text", fields.TypeString,
					fields.WithHelp("Token ids to decode"),
				),
				fields.New("file", fields.TypeString,
					fields.WithHelp("Read the token ids from a file, - for stdin"),
				),
			),
		),
	}, nil
}

func (d *DecodeCommand) RunIntoWriter(ctx context.Context, parsedValues *values.Values, w io.Writer) error {
	s := &decodeSettings{}
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

	var ids []uint
	for _, t := range strings.Fields(input) {
		id, err := strconv.Atoi(t)
		if err != nil {
			return fmt.Errorf("invalid token id: %s", t)
		}
		ids = append(ids, uint(id))
	}

	text, err := codec.Decode(ids)
	if err != nil {
		return fmt.Errorf("error decoding: %v", err)
	}

	_, err = fmt.Fprintln(w, text)
	return err
}
