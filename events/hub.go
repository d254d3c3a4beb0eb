package events

import (
	"context"
	"sync"

	"github.com/junaidrashid-git/autoparts-api/models"
	log "github.com/sirupsen/logrus"
)

const subscriberBuffer = 16

type subscriber struct {
	ch   chan Event
	once sync.Once
}

// Hub is an in-process pub/sub for order and approval events. Subscribers
// either follow one order or the whole feed. Delivery never blocks the
// publisher: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.Mutex
	byRef  map[string]map[*subscriber]struct{}
	global map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{
		byRef:  make(map[string]map[*subscriber]struct{}),
		global: make(map[*subscriber]struct{}),
	}
}

func refKey(ref models.OrderRef) string { return ref.LedgerPath + "#" + ref.OrderID }

// Subscribe follows the events of one order. The returned cancel func closes
// the channel and is safe to call more than once.
func (h *Hub) Subscribe(ref models.OrderRef) (<-chan Event, func()) {
	s := &subscriber{ch: make(chan Event, subscriberBuffer)}
	key := refKey(ref)

	h.mu.Lock()
	if h.byRef[key] == nil {
		h.byRef[key] = make(map[*subscriber]struct{})
	}
	h.byRef[key][s] = struct{}{}
	h.mu.Unlock()

	return s.ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if subs, ok := h.byRef[key]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(h.byRef, key)
			}
		}
		s.once.Do(func() { close(s.ch) })
	}
}

// SubscribeAll follows every event published to the hub.
func (h *Hub) SubscribeAll() (<-chan Event, func()) {
	s := &subscriber{ch: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	h.global[s] = struct{}{}
	h.mu.Unlock()

	return s.ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.global, s)
		s.once.Do(func() { close(s.ch) })
	}
}

func (h *Hub) Publish(_ context.Context, e Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.byRef[refKey(e.Ref)] {
		deliver(s, e)
	}
	for s := range h.global {
		deliver(s, e)
	}
	return nil
}

func deliver(s *subscriber, e Event) {
	select {
	case s.ch <- e:
	default:
		log.WithFields(log.Fields{
			"event": e.Type,
			"order": e.Ref.OrderID,
		}).Warn("Subscriber buffer full, event dropped")
	}
}

// Subscribers returns the number of live subscriptions for ref.
func (h *Hub) Subscribers(ref models.OrderRef) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.byRef[refKey(ref)])
}
