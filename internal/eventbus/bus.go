package eventbus

import (
	"sync"

	domain "github.com/oshokin/space-status/internal/domain/presence"
)

// Bus fans a transition event out to every subscriber without ever
// blocking the publisher. Each subscriber has a buffer of exactly one
// pending event: if it has not consumed the previous event by the time
// the next one arrives, the previous event is discarded and replaced.
// Subscribers therefore observe the events they do receive in
// chronological order, but are not guaranteed to receive every event.
type Bus struct {
	// mu protects the subscriber set and linearizes publishes.
	mu sync.Mutex
	// subs is the set of live subscriptions.
	subs map[*Subscription]struct{}
	// closed marks the bus as shut down.
	closed bool
}

// Subscription is one subscriber's delivery queue.
type Subscription struct {
	// C delivers events. It is closed when the subscription is
	// canceled or the bus shuts down.
	C <-chan domain.Event

	ch  chan domain.Event
	bus *Bus
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{
		subs: make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a new subscriber. Subscribing to a closed bus
// yields a subscription whose channel is already closed.
func (b *Bus) Subscribe() *Subscription {
	ch := make(chan domain.Event, 1)
	sub := &Subscription{
		C:   ch,
		ch:  ch,
		bus: b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)

		return sub
	}

	b.subs[sub] = struct{}{}

	return sub
}

// Cancel ends the subscription and closes its channel.
// Canceling twice is safe.
func (s *Subscription) Cancel() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	if _, ok := s.bus.subs[s]; !ok {
		return
	}

	delete(s.bus.subs, s)
	close(s.ch)
}

// Publish delivers the event to every subscriber, replacing a pending
// undelivered event if there is one. It never blocks and never fails.
func (b *Bus) Publish(event domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for sub := range b.subs {
		select {
		case sub.ch <- event:
		default:
			// The subscriber lags: drop its pending event. Only the
			// publisher sends, and it holds the lock, so the queue
			// has room again after the drain.
			select {
			case <-sub.ch:
			default:
			}

			sub.ch <- event
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true

	for sub := range b.subs {
		close(sub.ch)
	}

	b.subs = make(map[*Subscription]struct{})
}
