package store

import "sync"

// Op is the kind of change of an Event.
type Op int

const (
	Created Op = iota
	Updated
	Deleted
)

func (o Op) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "deleted"
	}
}

// Event describes a committed change to a record.
type Event struct {
	Collection string
	Op         Op
	ID         string
}

// Hub dispatches events to subscribers. Its zero value is ready to use.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

// Subscribe registers f and returns the function that unregisters it.
func (h *Hub) Subscribe(f func(Event)) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[int]func(Event))
	}
	id := h.next
	h.next++
	h.subs[id] = f
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Notify calls every subscriber with each event.
// Subscribers are called outside of the lock, so they may read the store.
func (h *Hub) Notify(events ...Event) {
	h.mu.Lock()
	subs := make([]func(Event), 0, len(h.subs))
	for _, f := range h.subs {
		subs = append(subs, f)
	}
	h.mu.Unlock()

	for _, e := range events {
		for _, f := range subs {
			f(e)
		}
	}
}
