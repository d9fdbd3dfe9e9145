// Package events fans inventory change events out to in-process subscribers.
package events

import (
	"log/slog"
	"sync"

	"inventory-lab/internal/domain"
)

const defaultBufferSize = 16

// Hub broadcasts change events to every current subscriber. A subscriber whose
// buffer is full misses the event instead of blocking the publisher.
type Hub struct {
	mu         sync.RWMutex
	subs       map[chan domain.ChangeEvent]struct{}
	bufferSize int
}

func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Hub{
		subs:       make(map[chan domain.ChangeEvent]struct{}),
		bufferSize: bufferSize,
	}
}

// Subscribe registers a new listener. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan domain.ChangeEvent, func()) {
	ch := make(chan domain.ChangeEvent, h.bufferSize)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (h *Hub) Publish(ev domain.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			slog.Warn("dropping change event for slow subscriber", "kind", ev.Kind, "id", ev.ID)
		}
	}
}

// Subscribers reports how many listeners are attached.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
