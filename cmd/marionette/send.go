package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tcnksm/go-input"

	"github.com/go-go-golems/marionette/pkg/chat"
	"github.com/go-go-golems/marionette/pkg/completion/factory"
	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/events"
	"github.com/go-go-golems/marionette/pkg/sections"
	"github.com/go-go-golems/marionette/pkg/ui"
)

type SendCommand struct {
	*cmds.CommandDescription
}

var _ cmds.WriterCommand = (*SendCommand)(nil)

type sendSettings struct {
	Settings    string `glazed:"settings"`
	Prompt      string `glazed:"prompt"`
	File        string `glazed:"file"`
	Plain       bool   `glazed:"plain"`
	Interactive bool   `glazed:"interactive"`
	Transcript  string `glazed:"transcript"`
}

func NewSendCommand() (*SendCommand, error) {
	marionetteSections, err := sections.CreateMarionetteSections()
	if err != nil {
		return nil, err
	}

	return &SendCommand{
		CommandDescription: cmds.NewCommandDescription(
			"send",
			cmds.WithShort("Send a single message and print the assistant reply"),
			cmds.WithFlags(
				settingsFileFlag(),
				fields.New("prompt", fields.TypeString,
					fields.WithHelp("Message to send"),
				),
				fields.New("file", fields.TypeString,
					fields.WithHelp("Read the message from a file, - for stdin"),
				),
				fields.New("plain", fields.TypeBool,
					fields.WithHelp("Print the raw reply without markdown rendering"),
					fields.WithDefault(false),
				),
				fields.New("interactive", fields.TypeBool,
					fields.WithHelp("Offer to continue the exchange in the chat UI"),
					fields.WithDefault(false),
				),
				fields.New("transcript", fields.TypeString,
					fields.WithHelp("Write the conversation transcript to this file"),
				),
			),
			cmds.WithSections(marionetteSections...),
		),
	}, nil
}

func (c *SendCommand) RunIntoWriter(ctx context.Context, parsedValues *values.Values, w io.Writer) error {
	s := &sendSettings{}
	if err := parsedValues.DecodeSectionInto(values.DefaultSlug, s); err != nil {
		return err
	}

	prompt, err := readPrompt(s)
	if err != nil {
		return err
	}

	stepSettings, err := stepSettingsFromValues(parsedValues, s.Settings)
	if err != nil {
		return err
	}

	client, err := factory.NewClientFromStepSettings(stepSettings)
	if err != nil {
		return err
	}

	controllerOptions := []chat.ControllerOption{chat.WithBaseContext(ctx)}
	if stepSettings.Client != nil && stepSettings.Client.Timeout != nil {
		controllerOptions = append(controllerOptions, chat.WithRequestTimeout(*stepSettings.Client.Timeout))
	}

	controller, err := chat.NewController(client, controllerOptions...)
	if err != nil {
		return err
	}

	reply, err := awaitReply(ctx, controller, prompt)
	if err != nil {
		return err
	}

	if err := printReply(w, reply, s.Plain); err != nil {
		return err
	}

	if s.Transcript != "" {
		if err := writeTranscript(s.Transcript, controller.State().History()); err != nil {
			return err
		}
	}

	if !s.Interactive {
		return nil
	}

	continueInChat, err := askForChatContinuation()
	if err != nil {
		return err
	}
	if !continueInChat {
		return nil
	}

	return continueChat(ctx, w, controller)
}

// readPrompt resolves the message to send from --prompt, --file, piped stdin
// or an interactive question, in that order.
func readPrompt(s *sendSettings) (string, error) {
	if s.Prompt != "" && s.File != "" {
		return "", errors.New("--prompt and --file are mutually exclusive")
	}
	if s.Prompt != "" {
		return s.Prompt, nil
	}
	if s.File != "" {
		text, err := readFileOrStdin(s.File)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return "", errors.Errorf("%s contains no message", s.File)
		}
		return text, nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		text, err := readFileOrStdin("-")
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return "", errors.New("stdin contains no message")
		}
		return text, nil
	}

	ui_ := &input.UI{
		Writer: os.Stdout,
		Reader: os.Stdin,
	}
	prompt, err := ui_.Ask("Message", &input.Options{
		Required: true,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to read message")
	}
	return prompt, nil
}

type sendResult struct {
	text string
	err  error
}

// awaitReply sends one message and blocks until the exchange settles or the
// context runs out. The observer only ever reads the state it was handed, the
// controller lock is still held while it runs.
func awaitReply(ctx context.Context, controller *chat.Controller, prompt string) (string, error) {
	resultCh := make(chan sendResult, 1)

	unsubscribe := controller.Subscribe(chat.ObserverFunc(func(state chat.State) {
		var res sendResult
		switch s := state.(type) {
		case *chat.StateSettled:
			text, ok := s.History().LastAssistantText()
			if !ok {
				res = sendResult{err: errors.New("the conversation settled without a reply")}
			} else {
				res = sendResult{text: text}
			}
		case *chat.StateFailed:
			res = sendResult{err: errors.New(s.ErrorMessage())}
		default:
			return
		}

		select {
		case resultCh <- res:
		default:
		}
	}))
	defer unsubscribe()

	controller.SendMessage(prompt)

	select {
	case res := <-resultCh:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// printReply renders the assistant reply, styled markdown when stdout is a
// terminal and raw text otherwise.
func printReply(w io.Writer, reply string, plain bool) error {
	if plain || !isatty.IsTerminal(os.Stdout.Fd()) {
		_, err := fmt.Fprintln(w, reply)
		return err
	}

	styled, err := glamour.Render(reply, "dark")
	if err != nil {
		log.Warn().Err(err).Msg("could not render markdown, printing raw text")
		_, err = fmt.Fprintln(w, reply)
		return err
	}
	_, err = fmt.Fprint(w, styled)
	return err
}

func writeTranscript(path string, history conversation.Conversation) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create transcript file %s", path)
	}
	defer func() {
		_ = f.Close()
	}()

	renderer := &conversation.Renderer{}
	return renderer.RenderTo(f, "Chat transcript", history)
}

func askForChatContinuation() (bool, error) {
	tty_, err := ui.OpenTTY()
	if err != nil {
		return false, err
	}
	defer func() {
		err := tty_.Close()
		if err != nil {
			fmt.Println("Failed to close tty:", err)
		}
	}()

	ui_ := &input.UI{
		Writer: tty_,
		Reader: tty_,
	}

	query := "\nDo you want to continue in chat? [y/n]"
	answer, err := ui_.Ask(query, &input.Options{
		Default:  "y",
		Required: true,
		Loop:     true,
		ValidateFunc: func(answer string) error {
			switch answer {
			case "y", "Y", "n", "N":
				return nil
			default:
				return errors.New("please enter 'y' or 'n'")
			}
		},
	})
	if err != nil {
		return false, errors.Wrap(err, "failed to get user input")
	}

	return answer == "y" || answer == "Y", nil
}

// continueChat hands the finished exchange over to the chat UI. Messages
// typed there land in the same controller history, and whatever was said
// during the session is echoed once the UI exits.
func continueChat(ctx context.Context, w io.Writer, controller *chat.Controller) error {
	router, err := events.NewEventRouter()
	if err != nil {
		return err
	}
	defer func() {
		if err := router.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close event router")
		}
	}()

	manager := events.NewPublisherManager()
	manager.SubscribePublisher("ui", router.Publisher)

	statePublisher := events.NewStatePublisher(uuid.New(), manager)
	defer statePublisher.Close()

	unsubscribe := controller.Subscribe(statePublisher)
	defer unsubscribe()

	if err := runChat(ctx, router, controller); err != nil {
		return err
	}

	// skip the prompt and the reply that were already printed
	for idx, msg := range controller.State().History() {
		if idx <= 1 {
			continue
		}
		if _, err := fmt.Fprintln(w, ui.DrawBorderedMessage(msg.View())); err != nil {
			return err
		}
	}

	return nil
}
