package events

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/go-go-golems/marionette/pkg/conversation"
)

type EventType string

const (
	// EventTypePending is published when a user message was accepted and a
	// completion request is in flight.
	EventTypePending EventType = "pending"
	// EventTypeSettled is published when the assistant reply was appended to
	// the history.
	EventTypeSettled EventType = "settled"
	// EventTypeFailed is published when the completion request failed and the
	// conversation is waiting for a retry.
	EventTypeFailed EventType = "failed"
	// EventTypeCleared is published when the conversation was reset.
	EventTypeCleared EventType = "cleared"
)

type Event interface {
	Type() EventType
	Metadata() EventMetadata
	Payload() []byte
}

type EventImpl struct {
	Type_     EventType     `json:"type"`
	Metadata_ EventMetadata `json:"meta,omitempty"`

	// store payload if the event was deserialized from JSON (see NewEventFromJson), not further used
	payload []byte
}

func (e *EventImpl) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("type", string(e.Type_))
	ev.Object("meta", e.Metadata_)
}

func (e *EventImpl) Type() EventType {
	return e.Type_
}

func (e *EventImpl) Metadata() EventMetadata {
	return e.Metadata_
}

func (e *EventImpl) Payload() []byte {
	return e.payload
}

// SetPayload stores the raw JSON payload on the event implementation.
func (e *EventImpl) SetPayload(b []byte) {
	e.payload = b
}

var _ Event = &EventImpl{}

// EventPending carries the history snapshot that was sent to the completion
// service, ending in the user message that triggered the request.
type EventPending struct {
	EventImpl
	History conversation.Conversation `json:"history"`
}

func NewPendingEvent(metadata EventMetadata, history conversation.Conversation) *EventPending {
	return &EventPending{
		EventImpl: EventImpl{
			Type_:     EventTypePending,
			Metadata_: metadata,
			payload:   nil,
		},
		History: history,
	}
}

var _ Event = &EventPending{}

// EventSettled carries the full history including the assistant reply.
type EventSettled struct {
	EventImpl
	History conversation.Conversation `json:"history"`
}

func NewSettledEvent(metadata EventMetadata, history conversation.Conversation) *EventSettled {
	return &EventSettled{
		EventImpl: EventImpl{
			Type_:     EventTypeSettled,
			Metadata_: metadata,
			payload:   nil,
		},
		History: history,
	}
}

var _ Event = &EventSettled{}

// EventFailed carries the history as it stood when the request failed, plus
// a human-readable description of the failure.
type EventFailed struct {
	EventImpl
	History     conversation.Conversation `json:"history"`
	ErrorString string                    `json:"error_string"`
}

func NewFailedEvent(metadata EventMetadata, history conversation.Conversation, errorMessage string) *EventFailed {
	return &EventFailed{
		EventImpl: EventImpl{
			Type_:     EventTypeFailed,
			Metadata_: metadata,
			payload:   nil,
		},
		History:     history,
		ErrorString: errorMessage,
	}
}

var _ Event = &EventFailed{}

// EventCleared signals that the conversation history was discarded.
type EventCleared struct {
	EventImpl
}

func NewClearedEvent(metadata EventMetadata) *EventCleared {
	return &EventCleared{
		EventImpl: EventImpl{
			Type_:     EventTypeCleared,
			Metadata_: metadata,
			payload:   nil,
		},
	}
}

var _ Event = &EventCleared{}

func NewEventFromJson(b []byte) (Event, error) {
	var e *EventImpl
	err := json.Unmarshal(b, &e)
	if err != nil {
		return nil, err
	}

	e.payload = b

	switch e.Type_ {
	case EventTypePending:
		ret, ok := ToTypedEvent[EventPending](e)
		if !ok {
			return nil, fmt.Errorf("could not cast event to EventPending")
		}
		return ret, nil
	case EventTypeSettled:
		ret, ok := ToTypedEvent[EventSettled](e)
		if !ok {
			return nil, fmt.Errorf("could not cast event to EventSettled")
		}
		return ret, nil
	case EventTypeFailed:
		ret, ok := ToTypedEvent[EventFailed](e)
		if !ok {
			return nil, fmt.Errorf("could not cast event to EventFailed")
		}
		return ret, nil
	case EventTypeCleared:
		ret, ok := ToTypedEvent[EventCleared](e)
		if !ok {
			return nil, fmt.Errorf("could not cast event to EventCleared")
		}
		return ret, nil
	}

	return e, nil
}

func ToTypedEvent[T any](e Event) (*T, bool) {
	var ret *T
	err := json.Unmarshal(e.Payload(), &ret)
	if err != nil {
		return nil, false
	}

	return ret, true
}

func (e EventPending) MarshalZerologObject(ev *zerolog.Event) {
	e.EventImpl.MarshalZerologObject(ev)
	ev.Int("turns", len(e.History))
}

func (e EventSettled) MarshalZerologObject(ev *zerolog.Event) {
	e.EventImpl.MarshalZerologObject(ev)
	ev.Int("turns", len(e.History))
}

func (e EventFailed) MarshalZerologObject(ev *zerolog.Event) {
	e.EventImpl.MarshalZerologObject(ev)
	ev.Int("turns", len(e.History))
	ev.Str("error", e.ErrorString)
}

func (e EventCleared) MarshalZerologObject(ev *zerolog.Event) {
	e.EventImpl.MarshalZerologObject(ev)
}
