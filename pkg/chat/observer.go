package chat

// Observer receives every state transition of a Controller, exactly once and
// in the order the transitions occur.
//
// Delivery is synchronous: OnState runs on the goroutine that performed the
// transition, before the triggering operation returns. Callbacks must return
// quickly and must not call Controller operations; consumers that need to do
// either should hand the state off to their own goroutine or queue (see
// events.StatePublisher).
type Observer interface {
	OnState(state State)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(State)

func (f ObserverFunc) OnState(state State) {
	f(state)
}

var _ Observer = (ObserverFunc)(nil)

type subscription struct {
	id       uint64
	observer Observer
}

// Subscribe registers an observer for all future transitions and returns its
// unsubscribe function. Unsubscribing stops delivery but never affects
// controller state; calling it more than once is harmless.
func (c *Controller) Subscribe(observer Observer) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubscriberID
	c.nextSubscriberID++
	c.observers = append(c.observers, subscription{id: id, observer: observer})

	return func() {
		c.unsubscribe(id)
	}
}

func (c *Controller) unsubscribe(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, sub := range c.observers {
		if sub.id == id {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			return
		}
	}
}

// notifyLocked delivers the state to all observers in subscription order.
// Callers hold c.mu, which is what serializes transitions into a single
// global notification order.
func (c *Controller) notifyLocked(state State) {
	for _, sub := range c.observers {
		sub.observer.OnState(state)
	}
}
