package server

import (
	"errors"
	"sort"
	"sync"
)

// Register failures.
var (
	ErrServerFull = errors.New("server is full")
	ErrNameInUse  = errors.New("that name is already playing")
)

// sendBuffer is the per-player outbound queue length.
const sendBuffer = 256

type subscriber struct {
	name string
	ch   chan Envelope
}

// Hub keeps one outbound channel per connected player and fans
// announcements out to all of them.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
	max         int
}

// NewHub returns a hub admitting at most max players. Zero means unlimited.
func NewHub(max int) *Hub {
	return &Hub{
		subscribers: make(map[string]*subscriber),
		max:         max,
	}
}

// Register creates the outbound channel for a session.
func (h *Hub) Register(sessionID, name string) (<-chan Envelope, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.subscribers[sessionID]; ok {
		close(old.ch)
		delete(h.subscribers, sessionID)
	}
	if h.max > 0 && len(h.subscribers) >= h.max {
		return nil, ErrServerFull
	}
	for _, sub := range h.subscribers {
		if sub.name == name {
			return nil, ErrNameInUse
		}
	}

	sub := &subscriber{name: name, ch: make(chan Envelope, sendBuffer)}
	h.subscribers[sessionID] = sub
	return sub.ch, nil
}

// Unregister closes and removes a session's channel.
func (h *Hub) Unregister(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subscribers[sessionID]; ok {
		close(sub.ch)
		delete(h.subscribers, sessionID)
	}
}

// SendTo queues env for one session. A full queue drops the frame.
func (h *Hub) SendTo(sessionID string, env Envelope) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sub, ok := h.subscribers[sessionID]
	if !ok {
		return false
	}
	select {
	case sub.ch <- env:
		return true
	default:
		return false
	}
}

// Broadcast queues env for every session.
func (h *Hub) Broadcast(env Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers {
		select {
		case sub.ch <- env:
		default:
		}
	}
}

// Count returns the number of connected players.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Names returns the connected players' names, sorted.
func (h *Hub) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		names = append(names, sub.name)
	}
	sort.Strings(names)
	return names
}
