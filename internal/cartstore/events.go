package cartstore

import "sync"

// AddedEvent is published whenever an item lands in a cart. The web layer
// subscribes to it instead of the stores knowing anything about the UI.
type AddedEvent struct {
	UserID    string
	ProductID string
	Quantity  int
}

// Events is a small subscriber registry for cart events.
type Events struct {
	mu   sync.RWMutex
	subs []func(AddedEvent)
}

// NewEvents constructor.
func NewEvents() *Events {
	return &Events{}
}

// Subscribe registers a callback. Callbacks run synchronously on the
// goroutine that performed the cart mutation, so they should be quick.
func (e *Events) Subscribe(fn func(AddedEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

// Publish delivers the event to all subscribers. A nil *Events is valid
// and publishes to nobody.
func (e *Events) Publish(ev AddedEvent) {
	if e == nil {
		return
	}
	e.mu.RLock()
	subs := e.subs
	e.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}
