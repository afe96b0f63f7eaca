package ui

import (
	"github.com/ThreeDotsLabs/watermill/message"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/go-go-golems/marionette/pkg/events"
)

// ChatForwardFunc returns a router handler that acknowledges each event and
// forwards it into the program as a typed message.
func ChatForwardFunc(p *tea.Program) func(msg *message.Message) error {
	return func(msg *message.Message) error {
		msg.Ack()

		e, err := events.NewEventFromJson(msg.Payload)
		if err != nil {
			return err
		}

		teaMsg, err := eventToMsg(e)
		if err != nil {
			return err
		}
		if teaMsg != nil {
			p.Send(teaMsg)
		}

		return nil
	}
}

func eventToMsg(e events.Event) (tea.Msg, error) {
	switch e_ := e.(type) {
	case *events.EventPending:
		return PendingMsg{History: e_.History}, nil
	case *events.EventSettled:
		return SettledMsg{History: e_.History}, nil
	case *events.EventFailed:
		return FailedMsg{History: e_.History, ErrorString: e_.ErrorString}, nil
	case *events.EventCleared:
		return ClearedMsg{}, nil
	case *events.EventImpl:
		// unknown event type, nothing to show
		return nil, nil
	default:
		return nil, errors.Errorf("unhandled event type %s", e.Type())
	}
}
