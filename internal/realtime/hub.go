package realtime

import (
	"sync"

	"github.com/rs/zerolog/log"
)

const subscriberBuffer = 16

// Event is what POS clients receive: new orders and settings snapshots.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub is an in-process fan-out of events to every connected POS client. A
// subscriber that falls behind its buffer loses events rather than blocking
// the publisher.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new listener. The returned cancel func must be called
// when the client disconnects.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			log.Warn().Str("event_type", ev.Type).Msg("realtime: dropping event for slow subscriber")
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
