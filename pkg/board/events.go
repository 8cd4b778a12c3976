package board

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventSessionExpired is published once for every request whose 401 could not be
// recovered by a refresh. The client performs no navigation of its own.
const EventSessionExpired = "auth:session-expired"

// Event describes a client-level notification
type Event struct {
	Name      string
	Method    string
	Endpoint  string
	Status    int
	RequestID string
	At        time.Time
}

// EventHandler receives published events. It runs on the goroutine of the failed request.
type EventHandler func(ctx context.Context, ev Event)

type subscription struct {
	name    string
	handler EventHandler
}

type eventBus struct {
	mu   sync.RWMutex
	subs map[string]subscription
}

func newEventBus() *eventBus {
	return &eventBus{subs: make(map[string]subscription)}
}

// Subscribe registers handler for events named name and returns a function that removes it
func (c *Client) Subscribe(name string, handler EventHandler) (unsubscribe func()) {
	return c.events.subscribe(name, handler)
}

func (b *eventBus) subscribe(name string, handler EventHandler) func() {
	id := uuid.NewString()

	b.mu.Lock()
	b.subs[id] = subscription{name: name, handler: handler}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

func (b *eventBus) publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	handlers := make([]EventHandler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.name == ev.Name {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
}
