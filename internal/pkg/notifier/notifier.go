package notifier

import (
	"sync"
)

// Hub fans a one-line outcome message out to every subscriber. It is the
// process-local replacement for the presentation observers: the core
// publishes here and never touches a prompt or view directly.
type Hub struct {
	mu          sync.Mutex
	subscribers map[int]func(message string)
	nextID      int
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int]func(message string)),
	}
}

// Subscribe registers a callback and returns a function that removes it.
func (h *Hub) Subscribe(fn func(message string)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subscribers[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers, id)
	}
}

func (h *Hub) Notify(message string) {
	h.mu.Lock()
	fns := make([]func(string), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(message)
	}
}
