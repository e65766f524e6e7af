// Package live fans session snapshots out to display subscribers.
package live

import (
	"sync"

	"github.com/claude/presscoach/internal/session"
)

// Hub broadcasts snapshots to every subscriber. A slow subscriber never blocks
// Publish: each subscriber holds at most one pending snapshot, and a newer one
// replaces it.
type Hub struct {
	mu      sync.Mutex
	subs    map[chan session.Snapshot]struct{}
	latest  session.Snapshot
	hasLast bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan session.Snapshot]struct{})}
}

// Publish implements session.Publisher.
func (h *Hub) Publish(s session.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest, h.hasLast = s, true
	for ch := range h.subs {
		offer(ch, s)
	}
}

// offer puts s into a one-slot channel, dropping a stale value first.
// Only Publish sends, under the hub lock, so the second send cannot block.
func offer(ch chan session.Snapshot, s session.Snapshot) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- s
}

// Subscribe registers a subscriber. The channel starts with the latest
// snapshot, if any. Call the returned function to unsubscribe; the channel is
// closed then.
func (h *Hub) Subscribe() (<-chan session.Snapshot, func()) {
	ch := make(chan session.Snapshot, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	if h.hasLast {
		ch <- h.latest
	}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			close(ch)
			h.mu.Unlock()
		})
	}
}

// Latest returns the most recent snapshot.
func (h *Hub) Latest() (session.Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest, h.hasLast
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
