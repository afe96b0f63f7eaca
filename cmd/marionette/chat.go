package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/marionette/pkg/chat"
	"github.com/go-go-golems/marionette/pkg/completion/factory"
	"github.com/go-go-golems/marionette/pkg/events"
	"github.com/go-go-golems/marionette/pkg/sections"
	"github.com/go-go-golems/marionette/pkg/ui"
)

type ChatCommand struct {
	*cmds.CommandDescription
}

var _ cmds.BareCommand = (*ChatCommand)(nil)

type chatSettings struct {
	Settings      string `glazed:"settings"`
	DumpEvents    bool   `glazed:"dump-events"`
	VerboseEvents bool   `glazed:"verbose-events"`
}

func NewChatCommand() (*ChatCommand, error) {
	marionetteSections, err := sections.CreateMarionetteSections()
	if err != nil {
		return nil, err
	}

	return &ChatCommand{
		CommandDescription: cmds.NewCommandDescription(
			"chat",
			cmds.WithShort("Chat with a model in an interactive terminal UI"),
			cmds.WithFlags(
				settingsFileFlag(),
				fields.New("dump-events", fields.TypeBool,
					fields.WithHelp("Print raw bus events to stdout"),
					fields.WithDefault(false),
				),
				fields.New("verbose-events", fields.TypeBool,
					fields.WithHelp("Log full event payloads on the router"),
					fields.WithDefault(false),
				),
			),
			cmds.WithSections(marionetteSections...),
		),
	}, nil
}

func (c *ChatCommand) Run(ctx context.Context, parsed *values.Values) error {
	s := &chatSettings{}
	if err := parsed.DecodeSectionInto(values.DefaultSlug, s); err != nil {
		return err
	}

	stepSettings, err := stepSettingsFromValues(parsed, s.Settings)
	if err != nil {
		return err
	}

	client, err := factory.NewClientFromStepSettings(stepSettings)
	if err != nil {
		return err
	}

	router, err := events.NewEventRouter(events.WithVerbose(s.VerboseEvents))
	if err != nil {
		return err
	}
	defer func() {
		if err := router.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close event router")
		}
	}()

	if s.DumpEvents {
		router.AddHandler("raw-events-stdout", "ui", router.DumpRawEvents)
	}

	manager := events.NewPublisherManager()
	manager.SubscribePublisher("ui", router.Publisher)

	statePublisher := events.NewStatePublisher(uuid.New(), manager)
	defer statePublisher.Close()

	controllerOptions := []chat.ControllerOption{
		chat.WithObserver(statePublisher),
		chat.WithBaseContext(ctx),
	}
	if stepSettings.Client != nil && stepSettings.Client.Timeout != nil {
		controllerOptions = append(controllerOptions, chat.WithRequestTimeout(*stepSettings.Client.Timeout))
	}

	controller, err := chat.NewController(client, controllerOptions...)
	if err != nil {
		return err
	}

	return runChat(ctx, router, controller)
}

// runChat runs the bubbletea chat UI against a controller, with the router
// forwarding bus events into the program. It returns once the user quits.
func runChat(ctx context.Context, router *events.EventRouter, controller *chat.Controller) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	isOutputTerminal := isatty.IsTerminal(os.Stdout.Fd())

	options := []tea.ProgramOption{
		tea.WithMouseCellMotion(), // turn on mouse support so we can track the mouse wheel
	}
	if !isOutputTerminal {
		options = append(options, tea.WithOutput(os.Stderr))
	} else {
		options = append(options, tea.WithAltScreen())
	}

	p := tea.NewProgram(
		ui.InitialModel(controller),
		options...,
	)

	router.AddHandler("ui", "ui", ui.ChatForwardFunc(p))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return router.Run(egCtx)
	})
	eg.Go(func() error {
		// stop the router once the UI exits so eg.Wait can return
		defer cancel()

		select {
		case <-router.Running():
		case <-egCtx.Done():
			return egCtx.Err()
		}

		if err := router.RunHandlers(egCtx); err != nil {
			return err
		}

		_, err := p.Run()
		return err
	})

	return eg.Wait()
}
