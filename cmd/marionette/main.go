package main

import (
	"io"
	"os"

	clay "github.com/go-go-golems/clay/pkg"
	"github.com/go-go-golems/glazed/pkg/cli"
	"github.com/go-go-golems/glazed/pkg/cmds/logging"
	"github.com/go-go-golems/glazed/pkg/help"
	help_cmd "github.com/go-go-golems/glazed/pkg/help/cmd"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/marionette/cmd/marionette/cmds/tokens"
	"github.com/go-go-golems/marionette/pkg/doc"
	"github.com/go-go-golems/marionette/pkg/sections"
)

var rootCmd = &cobra.Command{
	Use:   "marionette",
	Short: "Converse with AI providers from the terminal",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitLoggerFromCobra(cmd)
	},
}

func main() {
	err := clay.InitGlazed("marionette", rootCmd)
	cobra.CheckErr(err)

	helpSystem := help.NewHelpSystem()
	err = doc.AddDocToHelpSystem(helpSystem)
	cobra.CheckErr(err)
	help_cmd.SetupCobraRootCommand(helpSystem, rootCmd)

	chatCmd, err := NewChatCommand()
	cobra.CheckErr(err)
	chatCobra, err := cli.BuildCobraCommand(chatCmd,
		cli.WithCobraMiddlewaresFunc(sections.GetCobraCommandMarionetteMiddlewares),
	)
	cobra.CheckErr(err)
	rootCmd.AddCommand(chatCobra)

	sendCmd, err := NewSendCommand()
	cobra.CheckErr(err)
	sendCobra, err := cli.BuildCobraCommand(sendCmd,
		cli.WithCobraMiddlewaresFunc(sections.GetCobraCommandMarionetteMiddlewares),
	)
	cobra.CheckErr(err)
	rootCmd.AddCommand(sendCobra)

	modelsCmd, err := NewModelsCommand()
	cobra.CheckErr(err)
	modelsCobra, err := cli.BuildCobraCommand(modelsCmd,
		cli.WithCobraMiddlewaresFunc(sections.GetCobraCommandMarionetteMiddlewares),
	)
	cobra.CheckErr(err)
	rootCmd.AddCommand(modelsCobra)

	extractCmd, err := NewExtractCommand()
	cobra.CheckErr(err)
	extractCobra, err := cli.BuildCobraCommand(extractCmd)
	cobra.CheckErr(err)
	rootCmd.AddCommand(extractCobra)

	tokens.RegisterCommands(rootCmd)
	registerConfigCommands(rootCmd)

	cobra.CheckErr(rootCmd.Execute())
}

// readFileOrStdin reads a whole input file, - or the empty string meaning
// stdin.
func readFileOrStdin(path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.Wrap(err, "could not read stdin")
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "could not read %s", path)
	}
	return string(b), nil
}
