package ui

import (
	"github.com/go-go-golems/marionette/pkg/conversation"
)

// Messages delivered into the program by the event forwarder.

type PendingMsg struct {
	History conversation.Conversation
}

type SettledMsg struct {
	History conversation.Conversation
}

type FailedMsg struct {
	History     conversation.Conversation
	ErrorString string
}

type ClearedMsg struct{}
