package events

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventMetadata travels with every event published on the bus.
type EventMetadata struct {
	ID             uuid.UUID `json:"message_id" yaml:"message_id" mapstructure:"message_id"`
	ConversationID uuid.UUID `json:"conversation_id" yaml:"conversation_id" mapstructure:"conversation_id"`
}

func (em EventMetadata) MarshalZerologObject(e *zerolog.Event) {
	e.Str("message_id", em.ID.String())
	if em.ConversationID != uuid.Nil {
		e.Str("conversation_id", em.ConversationID.String())
	}
}
