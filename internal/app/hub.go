package app

import (
	"sync"
	"time"
)

// BoardEvent tells subscribers that leaderboard contents changed and a fresh
// snapshot should be fetched.
type BoardEvent struct {
	Reason    string    `json:"reason"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateHub fans leaderboard change events out to websocket subscribers.
type UpdateHub struct {
	now func() time.Time

	mu          sync.Mutex
	subscribers map[chan BoardEvent]struct{}
}

func NewUpdateHub() *UpdateHub {
	return &UpdateHub{
		now:         time.Now,
		subscribers: make(map[chan BoardEvent]struct{}),
	}
}

// Subscribe returns a channel of board events. The caller must invoke the
// returned cancel function to avoid leaks.
func (h *UpdateHub) Subscribe() (<-chan BoardEvent, func()) {
	ch := make(chan BoardEvent, 8)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast notifies all subscribers. Slow consumers lose stale events rather
// than blocking the sender.
func (h *UpdateHub) Broadcast(reason string) {
	event := BoardEvent{Reason: reason, UpdatedAt: h.now()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}
