package events

import (
	"context"
	"log/slog"
	"sync"
)

const subscriberBuffer = 16

// Broker fans events out to in-process subscribers of a group.
//
// Delivery never blocks the publisher: a subscriber whose buffer is full
// misses the event, and OnDrop (if set) is called.
type Broker struct {
	// OnDrop is called for every event a slow subscriber misses.
	OnDrop func(Event)

	mu     sync.RWMutex
	subs   map[string]map[chan Event]struct{}
	closed bool
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers for events of groupID. The returned cancel function
// unsubscribes and closes the channel; it is safe to call more than once.
func (b *Broker) Subscribe(groupID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if b.subs[groupID] == nil {
		b.subs[groupID] = make(map[chan Event]struct{})
	}
	b.subs[groupID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[groupID][ch]; !ok {
				return // already closed by Close
			}
			delete(b.subs[groupID], ch)
			if len(b.subs[groupID]) == 0 {
				delete(b.subs, groupID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers event to every current subscriber of its group.
func (b *Broker) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[event.GroupID] {
		select {
		case ch <- event:
		default:
			slog.WarnContext(ctx, "Dropped event for slow subscriber",
				"group_id", event.GroupID,
				"kind", event.Kind,
			)
			if b.OnDrop != nil {
				b.OnDrop(event)
			}
		}
	}
	return nil
}

// Subscribers returns the number of active subscriptions for groupID.
func (b *Broker) Subscribers(groupID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[groupID])
}

// Close closes every subscription. Later subscriptions are closed immediately.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for groupID, chans := range b.subs {
		for ch := range chans {
			close(ch)
		}
		delete(b.subs, groupID)
	}
}
