// Package hub broadcasts dashboard updates to live subscribers, typically
// server-sent-event streams.
package hub

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hejijunhao/botdeck/internal/model"
)

const defaultSubscriberBuffer = 64

// Hub is an output.Output that fans updates out to subscriber channels. A
// subscriber that falls behind loses updates rather than slowing the others.
type Hub struct {
	bufSize int
	dropped atomic.Int64

	mu          sync.RWMutex
	subscribers map[chan model.Update]struct{}
	closed      bool
}

// New creates a Hub whose subscriber channels hold bufSize updates. A
// non-positive size uses the default.
func New(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = defaultSubscriberBuffer
	}
	return &Hub{
		bufSize:     bufSize,
		subscribers: make(map[chan model.Update]struct{}),
	}
}

// Subscribe registers a new subscriber. The channel is closed by Unsubscribe
// or Close.
func (h *Hub) Subscribe() <-chan model.Update {
	ch := make(chan model.Update, h.bufSize)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub <-chan model.Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		if ch == sub {
			delete(h.subscribers, ch)
			close(ch)
			return
		}
	}
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Dropped returns how many deliveries were skipped because a subscriber's
// buffer was full.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Write delivers u to every subscriber without blocking.
func (h *Hub) Write(_ context.Context, u model.Update) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers {
		select {
		case ch <- u:
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}

// Close disconnects every subscriber.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for ch := range h.subscribers {
		delete(h.subscribers, ch)
		close(ch)
	}
	return nil
}
