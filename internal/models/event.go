package models

import (
	"time"
)

type EventStatus string

const (
	EventStatusActive      EventStatus = "ACTIVE"
	EventStatusDeactivated EventStatus = "DEACTIVATED"
)

// Event is the aggregate root for a lucky draw. Attendees, winners and the
// draw counter are stored and loaded together with it.
type Event struct {
	ID        string      `json:"id" bson:"_id"`
	Title     string      `json:"title" bson:"title"`
	Venue     string      `json:"venue,omitempty" bson:"venue,omitempty"`
	StartAt   time.Time   `json:"startAt,omitempty" bson:"startAt,omitempty"`
	Status    EventStatus `json:"status" bson:"status"`
	Attendees []Attendee  `json:"attendees" bson:"attendees"`
	Winners   []Winner    `json:"winners" bson:"winners"`
	// MaxOrder is the high-water mark of draw order numbers ever issued. It never decreases.
	MaxOrder int `json:"maxOrder" bson:"maxOrder"`
	// Revision counts committed draws. Only DrawRepository.SaveDraw advances it.
	Revision  int64     `json:"revision" bson:"revision"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NewEvent creates a new Event with default values
func NewEvent(id, title string) *Event {
	return &Event{
		ID:        id,
		Title:     title,
		Status:    EventStatusActive,
		Attendees: []Attendee{},
		Winners:   []Winner{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// FindAttendee returns the index of the attendee with the given id, or -1
func (e *Event) FindAttendee(id string) int {
	for i := range e.Attendees {
		if e.Attendees[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so stores never share slices with callers
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	c.Attendees = append([]Attendee(nil), e.Attendees...)
	c.Winners = append([]Winner(nil), e.Winners...)
	if c.Attendees == nil {
		c.Attendees = []Attendee{}
	}
	if c.Winners == nil {
		c.Winners = []Winner{}
	}
	return &c
}

// CreateEventRequest is the body of POST /events
type CreateEventRequest struct {
	Title   string    `json:"title" binding:"required"`
	Venue   string    `json:"venue"`
	StartAt time.Time `json:"startAt"`
}
