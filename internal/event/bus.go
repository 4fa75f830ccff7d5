package event

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

const subscriberBuffer = 100

type subscription struct {
	name string
	ch   chan Event
}

// InMemoryBus delivers mutation events to in-process subscribers, each on its
// own buffered channel.
type InMemoryBus struct {
	mu          sync.RWMutex
	nextID      uint64
	subscribers map[uint64]subscription
	dropped     atomic.Uint64
}

func NewBus() *InMemoryBus {
	return &InMemoryBus{
		subscribers: make(map[uint64]subscription),
	}
}

// Publish never blocks. A subscriber whose buffer is full misses the event.
func (b *InMemoryBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		select {
		case sub.ch <- e:
		default:
			b.dropped.Add(1)
			slog.Warn("event dropped for slow subscriber", "subscriber", sub.name, "type", e.Type, "resource", e.Resource)
		}
	}
}

// Subscribe registers a named subscriber. The name only appears in logs.
func (b *InMemoryBus) Subscribe(name string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan Event, subscriberBuffer)
	b.subscribers[id] = subscription{name: name, ch: ch}

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, exists := b.subscribers[id]; exists {
			close(sub.ch)
			delete(b.subscribers, id)
		}
	}

	return ch, unsubscribe
}

// Subscribers reports how many subscriptions are open.
func (b *InMemoryBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped counts deliveries skipped because a subscriber was full.
func (b *InMemoryBus) Dropped() uint64 {
	return b.dropped.Load()
}
