package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/marionette/pkg/chat"
)

// StatePublisher bridges controller state changes onto the event bus.
//
// Controller observers run synchronously while the controller holds its
// lock, and a gochannel publisher may block until a subscriber acks. The
// publisher therefore only enqueues in OnState and publishes from its own
// goroutine, preserving notification order.
type StatePublisher struct {
	conversationID uuid.UUID
	manager        *PublisherManager

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Event
	closed bool
	done   chan struct{}
}

func NewStatePublisher(conversationID uuid.UUID, manager *PublisherManager) *StatePublisher {
	ret := &StatePublisher{
		conversationID: conversationID,
		manager:        manager,
		done:           make(chan struct{}),
	}
	ret.cond = sync.NewCond(&ret.mu)

	go ret.dispatch()

	return ret
}

var _ chat.Observer = (*StatePublisher)(nil)

// OnState enqueues an event for the state change and returns immediately.
func (p *StatePublisher) OnState(state chat.State) {
	ev := p.eventForState(state)
	if ev == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.queue = append(p.queue, ev)
	p.cond.Signal()
}

func (p *StatePublisher) eventForState(state chat.State) Event {
	metadata := EventMetadata{
		ID:             uuid.New(),
		ConversationID: p.conversationID,
	}

	switch s := state.(type) {
	case *chat.StateIdle:
		return NewClearedEvent(metadata)
	case *chat.StatePending:
		return NewPendingEvent(metadata, s.History())
	case *chat.StateSettled:
		return NewSettledEvent(metadata, s.History())
	case *chat.StateFailed:
		return NewFailedEvent(metadata, s.History(), s.ErrorMessage())
	default:
		log.Warn().Str("state", string(state.Type())).Msg("not publishing unknown state")
		return nil
	}
}

func (p *StatePublisher) dispatch() {
	defer close(p.done)

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		ev := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.manager.PublishBlind(ev)
	}
}

// Close drains queued events, then stops the dispatch goroutine. Later
// OnState calls are ignored.
func (p *StatePublisher) Close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	<-p.done
}
