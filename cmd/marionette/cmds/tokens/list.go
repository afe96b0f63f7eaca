package tokens

import (
	"context"
	"fmt"
	"io"

	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/tiktoken-go/tokenizer"
)

type ListModelsCommand struct {
	*cmds.CommandDescription
}

var _ cmds.WriterCommand = (*ListModelsCommand)(nil)

func NewListModelsCommand() (*ListModelsCommand, error) {
	return &ListModelsCommand{
		CommandDescription: cmds.NewCommandDescription(
			"list-models",
			cmds.WithShort("List available models"),
		),
	}, nil
}

func (c *ListModelsCommand) RunIntoWriter(ctx context.Context, parsedValues *values.Values, w io.Writer) error {
	models := []tokenizer.Model{
		tokenizer.GPT4,
		tokenizer.GPT35Turbo,
		tokenizer.TextEmbeddingAda002,
		tokenizer.TextDavinci003,
		tokenizer.TextDavinci002,
		tokenizer.CodeDavinci002,
		tokenizer.CodeDavinci001,
		tokenizer.CodeCushman002,
		tokenizer.CodeCushman001,
		tokenizer.DavinciCodex,
		tokenizer.CushmanCodex,
		tokenizer.TextDavinci001,
		tokenizer.TextCurie001,
		tokenizer.TextBabbage001,
		tokenizer.TextAda001,
		tokenizer.Davinci,
		tokenizer.Curie,
		tokenizer.Babbage,
		tokenizer.Ada,
		tokenizer.TextSimilarityDavinci001,
		tokenizer.TextSimilarityCurie001,
		tokenizer.TextSimilarityBabbage001,
		tokenizer.TextSimilarityAda001,
		tokenizer.TextSearchDavinciDoc001,
		tokenizer.TextSearchCurieDoc001,
		tokenizer.TextSearchAdaDoc001,
		tokenizer.TextSearchBabbageDoc001,
		tokenizer.CodeSearchBabbageCode001,
		tokenizer.CodeSearchAdaCode001,
		tokenizer.TextDavinciEdit001,
		tokenizer.CodeDavinciEdit001,
	}

	for _, m := range models {
		if _, err := fmt.Fprintln(w, m); err != nil {
			return err
		}
	}
	return nil
}

type ListCodecsCommand struct {
	*cmds.CommandDescription
}

var _ cmds.WriterCommand = (*ListCodecsCommand)(nil)

func NewListCodecsCommand() (*ListCodecsCommand, error) {
	return &ListCodecsCommand{
		CommandDescription: cmds.NewCommandDescription(
			"list-codecs",
			cmds.WithShort("List available codecs"),
		),
	}, nil
}

func (l *ListCodecsCommand) RunIntoWriter(ctx context.Context, parsedValues *values.Values, w io.Writer) error {
	encodings := []tokenizer.Encoding{
		tokenizer.R50kBase,
		tokenizer.P50kBase,
		tokenizer.P50kEdit,
		tokenizer.Cl100kBase,
	}

	for _, e := range encodings {
		if _, err := fmt.Fprintln(w, e); err != nil {
			return err
		}
	}
	return nil
}
