package chat

import (
	"github.com/go-go-golems/marionette/pkg/conversation"
)

type StateType string

const (
	StateTypeIdle    StateType = "idle"
	StateTypePending StateType = "pending"
	StateTypeSettled StateType = "settled"
	StateTypeFailed  StateType = "failed"
)

// State is the tagged conversation state. Exactly one variant is current at
// any observable instant:
//
//   - StateIdle: no history yet, the initial state
//   - StatePending: a request is in flight, history ends with the user message
//   - StateSettled: the last exchange completed, history ends with the reply
//   - StateFailed: the last exchange failed, history keeps the user message
//
// States are immutable snapshots: the history they carry was copied when the
// transition happened and never changes afterwards. History returns a fresh
// slice on every call, so callers can keep or reorder it without affecting
// anyone else.
type State interface {
	Type() StateType
	History() conversation.Conversation

	sealed()
}

type StateIdle struct{}

func NewStateIdle() *StateIdle {
	return &StateIdle{}
}

func (s *StateIdle) Type() StateType {
	return StateTypeIdle
}

func (s *StateIdle) History() conversation.Conversation {
	return nil
}

func (s *StateIdle) sealed() {}

type StatePending struct {
	history conversation.Conversation
}

func NewStatePending(history conversation.Conversation) *StatePending {
	return &StatePending{history: history}
}

func (s *StatePending) Type() StateType {
	return StateTypePending
}

func (s *StatePending) History() conversation.Conversation {
	return s.history.Clone()
}

func (s *StatePending) sealed() {}

type StateSettled struct {
	history conversation.Conversation
}

func NewStateSettled(history conversation.Conversation) *StateSettled {
	return &StateSettled{history: history}
}

func (s *StateSettled) Type() StateType {
	return StateTypeSettled
}

func (s *StateSettled) History() conversation.Conversation {
	return s.history.Clone()
}

func (s *StateSettled) sealed() {}

type StateFailed struct {
	history      conversation.Conversation
	errorMessage string
}

func NewStateFailed(history conversation.Conversation, errorMessage string) *StateFailed {
	if errorMessage == "" {
		errorMessage = "completion failed"
	}
	return &StateFailed{history: history, errorMessage: errorMessage}
}

func (s *StateFailed) Type() StateType {
	return StateTypeFailed
}

func (s *StateFailed) History() conversation.Conversation {
	return s.history.Clone()
}

// ErrorMessage is the human-readable failure description, never empty.
func (s *StateFailed) ErrorMessage() string {
	return s.errorMessage
}

func (s *StateFailed) sealed() {}

var _ State = (*StateIdle)(nil)
var _ State = (*StatePending)(nil)
var _ State = (*StateSettled)(nil)
var _ State = (*StateFailed)(nil)

// ToTypedState narrows a State to a concrete variant.
func ToTypedState[T any](state State) (*T, bool) {
	typed, ok := state.(*T)
	if !ok {
		return nil, false
	}
	return typed, true
}
