package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-go-golems/marionette/pkg/completion"
	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const defaultRequestTimeout = 60 * time.Second

// Controller owns a single conversation: its append-only history, its current
// State, and the serialization of user input against in-flight completion
// calls. It is created once per conversation session; ClearChat resets it to
// idle without destroying the instance.
//
// SendMessage and ClearChat never return an error and never panic across the
// public contract; failures surface solely through StateFailed.
type Controller struct {
	mu sync.Mutex

	client         completion.Client
	baseCtx        context.Context
	requestTimeout time.Duration

	state   State
	history conversation.Conversation

	// generation tags each asynchronous completion call; a result is applied
	// only when its tag still matches, so slow abandoned requests can never
	// corrupt a cleared or superseded conversation.
	generation uint64

	observers        []subscription
	nextSubscriberID uint64
}

type ControllerOption func(*Controller)

// WithObserver subscribes an observer at construction time.
func WithObserver(observer Observer) ControllerOption {
	return func(c *Controller) {
		c.observers = append(c.observers, subscription{id: c.nextSubscriberID, observer: observer})
		c.nextSubscriberID++
	}
}

// WithBaseContext sets the parent context handed to asynchronous completion
// calls. Defaults to context.Background.
func WithBaseContext(ctx context.Context) ControllerOption {
	return func(c *Controller) {
		c.baseCtx = ctx
	}
}

// WithRequestTimeout bounds each completion call with its own deadline.
// Non-positive values keep the default of one minute.
func WithRequestTimeout(timeout time.Duration) ControllerOption {
	return func(c *Controller) {
		if timeout > 0 {
			c.requestTimeout = timeout
		}
	}
}

func NewController(client completion.Client, options ...ControllerOption) (*Controller, error) {
	if client == nil {
		return nil, errors.New("completion client is required")
	}

	c := &Controller{
		client:         client,
		baseCtx:        context.Background(),
		requestTimeout: defaultRequestTimeout,
		state:          NewStateIdle(),
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

// State returns the current state. States are immutable snapshots, so the
// returned value stays valid after further transitions.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SendMessage appends text as a user message, enters StatePending and starts
// the completion call in the background, returning immediately. Text that is
// empty after trimming is ignored entirely: no state transition, no side
// effect. Non-empty text is stored verbatim, surrounding whitespace included.
func (c *Controller) SendMessage(text string) {
	if strings.TrimSpace(text) == "" {
		log.Debug().
			Str("component", "chat.controller").
			Msg("ignoring empty message")
		return
	}

	c.mu.Lock()

	userMessage := conversation.NewUserMessage(text)
	c.history = append(c.history, userMessage)
	c.generation++
	generation := c.generation

	snapshot := c.history.Clone()
	c.state = NewStatePending(snapshot)
	c.notifyLocked(c.state)

	c.mu.Unlock()

	log.Debug().
		Str("component", "chat.controller").
		Str("message_id", userMessage.ID.String()).
		Uint64("generation", generation).
		Int("history_length", len(snapshot)).
		Msg("starting completion")

	go c.runCompletion(snapshot, generation)
}

// ClearChat discards all history and moves to StateIdle. It always succeeds,
// including while a request is pending: the in-flight result is silently
// discarded when it eventually resolves.
func (c *Controller) ClearChat() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.history = nil
	c.state = NewStateIdle()
	c.notifyLocked(c.state)

	log.Debug().
		Str("component", "chat.controller").
		Uint64("generation", c.generation).
		Msg("conversation cleared")
}

func (c *Controller) runCompletion(history conversation.Conversation, generation uint64) {
	ctx, cancel := context.WithTimeout(c.baseCtx, c.requestTimeout)
	defer cancel()

	reply, err := c.client.Complete(ctx, history)
	c.applyResult(generation, reply, err)
}

func (c *Controller) applyResult(generation uint64, reply string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		log.Debug().
			Str("component", "chat.controller").
			Uint64("generation", generation).
			Uint64("current_generation", c.generation).
			Msg("discarding stale completion result")
		return
	}

	if err != nil {
		snapshot := c.history.Clone()
		c.state = NewStateFailed(snapshot, err.Error())
		c.notifyLocked(c.state)

		log.Debug().
			Str("component", "chat.controller").
			Uint64("generation", generation).
			Err(err).
			Msg("completion failed")
		return
	}

	assistantMessage := conversation.NewAssistantMessage(reply)
	c.history = append(c.history, assistantMessage)

	snapshot := c.history.Clone()
	c.state = NewStateSettled(snapshot)
	c.notifyLocked(c.state)

	log.Debug().
		Str("component", "chat.controller").
		Str("message_id", assistantMessage.ID.String()).
		Uint64("generation", generation).
		Int("history_length", len(snapshot)).
		Msg("completion settled")
}
