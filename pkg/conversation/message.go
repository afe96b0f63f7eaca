package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Message is a single utterance in a conversation. Messages are immutable
// once created; edits are expressed by appending new messages.
type Message struct {
	ID   uuid.UUID `json:"id" yaml:"id"`
	Role Role      `json:"role" yaml:"role"`
	Text string    `json:"text" yaml:"text"`
	Time time.Time `json:"time" yaml:"time"`
}

type MessageOption func(*Message)

func WithID(id uuid.UUID) MessageOption {
	return func(message *Message) {
		message.ID = id
	}
}

func WithTime(t time.Time) MessageOption {
	return func(message *Message) {
		message.Time = t.UTC()
	}
}

// NewMessage creates a message with a fresh ID and the current UTC time.
// The text is stored verbatim, surrounding whitespace included.
func NewMessage(role Role, text string, options ...MessageOption) *Message {
	ret := &Message{
		ID:   uuid.New(),
		Role: role,
		Text: text,
		Time: time.Now().UTC(),
	}

	for _, option := range options {
		option(ret)
	}

	return ret
}

func NewUserMessage(text string, options ...MessageOption) *Message {
	return NewMessage(RoleUser, text, options...)
}

func NewAssistantMessage(text string, options ...MessageOption) *Message {
	return NewMessage(RoleAssistant, text, options...)
}

func (m *Message) IsUser() bool {
	return m.Role == RoleUser
}

func (m *Message) String() string {
	return m.Text
}

// View renders the message in the `[role]: text` form used by transcripts.
func (m *Message) View() string {
	text := m.Text
	// Fenced blocks at the start need a leading newline to stay valid markdown.
	if strings.HasPrefix(text, "```") {
		text = "\n" + text
	}
	return fmt.Sprintf("[%s]: %s", m.Role, strings.TrimRight(text, "\n"))
}
