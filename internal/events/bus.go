// Package events provides a fire-and-forget in-process event bus for
// forget notifications: when a show, season or episode is removed with
// forget requested, the release titles it had downloaded are broadcast
// so a seen-history collaborator can unlearn them.
package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ForgetEvent carries the release titles to forget after a removal.
type ForgetEvent struct {
	// ID uniquely identifies the event.
	ID uuid.UUID `json:"id"`

	// Show is the display name of the show the titles belonged to.
	Show string `json:"show"`

	// Titles are the downloaded release titles being forgotten.
	Titles []string `json:"titles"`

	// EmittedAt is when the removal happened.
	EmittedAt time.Time `json:"emitted_at"`
}

// subscriberBuffer is the per-subscriber channel depth. A subscriber
// that falls this far behind starts losing events rather than blocking
// removal operations.
const subscriberBuffer = 16

// Bus fans forget events out to subscribers. Publishing never blocks.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan ForgetEvent
	logger      *slog.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string]chan ForgetEvent),
		logger:      logger.With("component", "forget_bus"),
	}
}

// Subscribe registers a new subscriber and returns its id, the event
// channel, and an unsubscribe function. The channel is closed on
// unsubscribe.
func (b *Bus) Subscribe() (string, <-chan ForgetEvent, func()) {
	id := uuid.NewString()
	ch := make(chan ForgetEvent, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if existing, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(existing)
		}
	}
	return id, ch, unsubscribe
}

// Publish broadcasts the titles to all subscribers. Events for slow
// subscribers are dropped with a warning; removal must never stall on a
// consumer.
func (b *Bus) Publish(show string, titles []string) ForgetEvent {
	event := ForgetEvent{
		ID:        uuid.New(),
		Show:      show,
		Titles:    titles,
		EmittedAt: time.Now(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.logger.Warn("dropping forget event for slow subscriber",
				"subscriber_id", id,
				"event_id", event.ID.String(),
				"show", show)
		}
	}
	return event
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
