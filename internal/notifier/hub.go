package notifier

import (
	"context"
	"sync"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"golang.org/x/exp/slog"
)

const subscriberBuffer = 64

// Role of a connection in an event's display room
type Role string

const (
	RoleDisplay Role = "display"
	RolePanel   Role = "panel"
)

// Hub fans notifications out to the display screens connected to each event
// room. It also tracks whether a control panel is connected and tells the
// room when that changes.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]*room
}

type room struct {
	subs   map[*Subscription]struct{}
	panels int
}

// Subscription is one connected screen or panel
type Subscription struct {
	C <-chan models.DrawNotification

	hub     *Hub
	eventID string
	role    Role
	ch      chan models.DrawNotification
	once    sync.Once
}

func NewHub() *Hub {
	return &Hub{rooms: map[string]*room{}}
}

var _ Notifier = (*Hub)(nil)

// Subscribe joins the room of an event. The first message a subscriber gets is
// the current controller status.
func (h *Hub) Subscribe(eventID string, role Role) *Subscription {
	ch := make(chan models.DrawNotification, subscriberBuffer)
	s := &Subscription{C: ch, hub: h, eventID: eventID, role: role, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[eventID]
	if !ok {
		r = &room{subs: map[*Subscription]struct{}{}}
		h.rooms[eventID] = r
	}
	r.subs[s] = struct{}{}

	if role == RolePanel {
		r.panels++
		if r.panels == 1 {
			h.broadcastLocked(r, ControllerStatus(eventID, true))
			return s
		}
	}
	s.send(ControllerStatus(eventID, r.panels > 0))
	return s
}

// Close leaves the room. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		defer h.mu.Unlock()

		r, ok := h.rooms[s.eventID]
		if !ok {
			return
		}
		delete(r.subs, s)
		close(s.ch)
		if s.role == RolePanel {
			r.panels--
			if r.panels == 0 {
				h.broadcastLocked(r, ControllerStatus(s.eventID, false))
			}
		}
		if len(r.subs) == 0 {
			delete(h.rooms, s.eventID)
		}
	})
}

func (s *Subscription) send(n models.DrawNotification) {
	select {
	case s.ch <- n:
	default:
		slog.Warn("Display subscriber is not keeping up, dropping notification",
			"eventId", s.eventID, "kind", n.Kind, "role", s.role)
	}
}

// Publish sends a notification to every subscriber of its event. It never blocks.
func (h *Hub) Publish(_ context.Context, n models.DrawNotification) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[n.EventID]; ok {
		h.broadcastLocked(r, n)
	}
	return nil
}

func (h *Hub) broadcastLocked(r *room, n models.DrawNotification) {
	for s := range r.subs {
		s.send(n)
	}
}

// ControllerOnline reports whether a control panel is connected to the event room
func (h *Hub) ControllerOnline(eventID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[eventID]
	return ok && r.panels > 0
}

// Subscribers returns the number of connections in an event room
func (h *Hub) Subscribers(eventID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[eventID]; ok {
		return len(r.subs)
	}
	return 0
}
