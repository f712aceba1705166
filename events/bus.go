package events

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"tienda-joyas/logger"
	"tienda-joyas/models"
)

const defaultBuffer = 16

// Publisher is the side of the bus services depend on
type Publisher interface {
	Publish(evt models.Event)
}

// Subscriber is the side of the bus consumers depend on
type Subscriber interface {
	Subscribe(buffer int, filter func(models.Event) bool) (<-chan models.Event, func())
}

// Bus fans events out to subscribers. Publishing never blocks: a subscriber whose
// buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscription
	nextID uint64
	now    func() time.Time
	log    *zap.Logger
}

type subscription struct {
	ch     chan models.Event
	filter func(models.Event) bool
}

// NewBus creates an empty bus
func NewBus(log *zap.Logger) *Bus {
	return &Bus{
		subs: make(map[uint64]*subscription),
		now:  time.Now,
		log:  logger.OrNop(log),
	}
}

// Ensure Bus implements Publisher and Subscriber
var (
	_ Publisher  = (*Bus)(nil)
	_ Subscriber = (*Bus)(nil)
)

// Subscribe registers a subscriber. filter may be nil to receive everything.
// The returned cancel func unregisters and closes the channel.
func (b *Bus) Subscribe(buffer int, filter func(models.Event) bool) (<-chan models.Event, func()) {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	sub := &subscription{ch: make(chan models.Event, buffer), filter: filter}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Publish delivers the event to every matching subscriber
func (b *Bus) Publish(evt models.Event) {
	if evt.At.IsZero() {
		evt.At = b.now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, sub := range b.subs {
		if sub.filter != nil && !sub.filter(evt) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			b.log.Warn("event dropped, subscriber is slow",
				zap.Uint64("subscriber", id),
				zap.String("type", evt.Type))
		}
	}
}

// Subscribers returns the number of active subscriptions
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// ForSession matches events addressed to the session and broadcast events
func ForSession(sessionID string) func(models.Event) bool {
	return func(evt models.Event) bool {
		return evt.SessionID == "" || evt.SessionID == sessionID
	}
}

// OfType matches events of the given types
func OfType(types ...string) func(models.Event) bool {
	return func(evt models.Event) bool {
		for _, t := range types {
			if evt.Type == t {
				return true
			}
		}
		return false
	}
}

// Toast builds a notification shown to a single session
func Toast(sessionID, message string) models.Event {
	return models.Event{Type: models.EventToast, SessionID: sessionID, Message: message}
}
