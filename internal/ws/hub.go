// Package ws delivers validated room events to websocket subscribers. It is
// the broadcast collaborator around the room service: handlers publish an
// event after a mutation commits, and every subscriber of that room gets it.
package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/rpnow-go/rpnow/internal/metrics"
)

// Event is the envelope broadcast to a room's subscribers.
type Event struct {
	ID      string `json:"eid"`
	Type    string `json:"type"` // init, message, edit, chara
	Payload any    `json:"payload"`
}

// NewEvent wraps a payload in an envelope with a fresh event id.
func NewEvent(eventType string, payload any) Event {
	return Event{ID: ulid.Make().String(), Type: eventType, Payload: payload}
}

// Subscriber receives a room's events on C until unsubscribed.
type Subscriber struct {
	ID   uuid.UUID
	Room string
	C    chan Event

	mu     sync.Mutex
	closed bool
}

// trySend delivers ev unless the subscriber is gone or its buffer is full.
// The closed check and the send share the subscriber's lock, so a concurrent
// Unsubscribe can never close C between the check and the send.
func (s *Subscriber) trySend(ev Event) (sent, full bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, false
	}
	select {
	case s.C <- ev:
		return true, false
	default:
		return false, true
	}
}

// Hub fans events out to per-room subscriber sets.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscriber]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Subscriber]bool)}
}

// Subscribe registers a new subscriber for the room.
func (h *Hub) Subscribe(roomCode string) *Subscriber {
	sub := &Subscriber{
		ID:   uuid.New(),
		Room: roomCode,
		C:    make(chan Event, 64),
	}

	h.mu.Lock()
	set, ok := h.rooms[roomCode]
	if !ok {
		set = make(map[*Subscriber]bool)
		h.rooms[roomCode] = set
	}
	set[sub] = true
	h.mu.Unlock()

	metrics.StreamConnections.Inc()
	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call
// more than once.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	set, ok := h.rooms[sub.Room]
	if ok && set[sub] {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.rooms, sub.Room)
		}
		metrics.StreamConnections.Dec()
	}
	h.mu.Unlock()

	sub.mu.Lock()
	if !sub.closed {
		sub.closed = true
		close(sub.C)
	}
	sub.mu.Unlock()
}

// Publish sends an event to every subscriber of the room. A subscriber
// whose buffer is full is dropped rather than allowed to stall the rest.
func (h *Hub) Publish(roomCode string, ev Event) {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.rooms[roomCode]))
	for sub := range h.rooms[roomCode] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		sent, full := sub.trySend(ev)
		if sent {
			metrics.StreamEventsSent.Inc()
		}
		if full {
			h.Unsubscribe(sub)
		}
	}
}

// SubscriberCount reports the number of open subscriptions for a room.
func (h *Hub) SubscriberCount(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomCode])
}
