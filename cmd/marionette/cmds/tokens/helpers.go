package tokens

import (
	"io"
	"os"
	"strings"

	"github.com/go-go-golems/glazed/pkg/cli"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tiktoken-go/tokenizer"
)

// getCodec picks the tokenizer codec, an explicit codec name winning over
// the model name.
func getCodec(model, codec string) (tokenizer.Codec, error) {
	if codec != "" {
		c, err := tokenizer.Get(tokenizer.Encoding(codec))
		if err != nil {
			return nil, errors.Wrapf(err, "unknown codec %s", codec)
		}
		return c, nil
	}
	if model != "" {
		c, err := tokenizer.ForModel(tokenizer.Model(model))
		if err != nil {
			return nil, errors.Wrapf(err, "unknown model %s", model)
		}
		return c, nil
	}
	return nil, errors.New("either a model or a codec is required")
}

func getDefaultEncoding(model string) string {
	switch {
	case strings.HasPrefix(model, "gpt-4"),
		strings.HasPrefix(model, "gpt-3.5-turbo"),
		strings.HasPrefix(model, "text-embedding-ada-002"):
		return "cl100k_base"
	case strings.HasPrefix(model, "text-davinci-002"),
		strings.HasPrefix(model, "text-davinci-003"):
		return "p50k_base"
	default:
		return "r50k_base"
	}
}

// readInput returns the text to tokenize, from --text, --file or stdin.
func readInput(text string, file string) (string, error) {
	if text != "" && file != "" {
		return "", errors.New("--text and --file are mutually exclusive")
	}
	if text != "" {
		return text, nil
	}
	if file == "" || file == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.Wrap(err, "could not read stdin")
		}
		return string(b), nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return "", errors.Wrapf(err, "could not read %s", file)
	}
	return string(b), nil
}

func RegisterTokenCommands(tokensCmd *cobra.Command) {
	countCmdInstance, err := NewCountCommand()
	cobra.CheckErr(err)
	countCommand, err := cli.BuildCobraCommand(countCmdInstance)
	cobra.CheckErr(err)
	tokensCmd.AddCommand(countCommand)

	decodeCmdInstance, err := NewDecodeCommand()
	cobra.CheckErr(err)
	decodeCommand, err := cli.BuildCobraCommand(decodeCmdInstance)
	cobra.CheckErr(err)
	tokensCmd.AddCommand(decodeCommand)

	encodeCmdInstance, err := NewEncodeCommand()
	cobra.CheckErr(err)
	encodeCommand, err := cli.BuildCobraCommand(encodeCmdInstance)
	cobra.CheckErr(err)
	tokensCmd.AddCommand(encodeCommand)

	listModelsCmdInstance, err := NewListModelsCommand()
	cobra.CheckErr(err)
	listModelsCommand, err := cli.BuildCobraCommand(listModelsCmdInstance)
	cobra.CheckErr(err)
	tokensCmd.AddCommand(listModelsCommand)

	listCodecsCmdInstance, err := NewListCodecsCommand()
	cobra.CheckErr(err)
	listCodecsCommand, err := cli.BuildCobraCommand(listCodecsCmdInstance)
	cobra.CheckErr(err)
	tokensCmd.AddCommand(listCodecsCommand)
}

func RegisterCommands(rootCmd *cobra.Command) {
	tokensCmd := &cobra.Command{
		Use:   "tokens",
		Short: "Commands related to tokens",
	}
	RegisterTokenCommands(tokensCmd)
	rootCmd.AddCommand(tokensCmd)
}
