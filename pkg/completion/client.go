package completion

import (
	"context"

	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/pkg/errors"
)

// ErrEmptyHistory is returned when Complete is called without any messages.
var ErrEmptyHistory = errors.New("history must contain at least one message")

// Client turns a full conversation history into a single assistant reply.
//
// Implementations are stateless per call: the remote service receives the
// entire history every time, and the client never retains or mutates the
// snapshot it is handed. Every failure is returned as a *ServiceError so the
// caller can distinguish network, auth, remote and empty-response conditions.
// Clients apply their configured timeout themselves and never hang
// indefinitely; they do not retry.
type Client interface {
	Complete(ctx context.Context, history conversation.Conversation) (string, error)
}
