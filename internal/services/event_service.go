package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/locker"
	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"github.com/ArowuTest/luckydraw-backend/internal/utils"
	"golang.org/x/exp/slog"
)

var _ EventService = (*EventServiceImpl)(nil)

// EventServiceImpl manages events and their guest lists. Anything that rewrites
// the event document holds the event lock, since draws write the same document.
type EventServiceImpl struct {
	eventRepo repositories.EventRepository
	prizeRepo repositories.PrizeRepository
	guard     eventGuard
}

func NewEventService(eventRepo repositories.EventRepository, prizeRepo repositories.PrizeRepository, lk locker.Locker, lockTimeout time.Duration) *EventServiceImpl {
	return &EventServiceImpl{
		eventRepo: eventRepo,
		prizeRepo: prizeRepo,
		guard:     eventGuard{locker: lk, timeout: lockTimeout},
	}
}

func (s *EventServiceImpl) CreateEvent(ctx context.Context, req models.CreateEventRequest) (*models.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrInvalidArgument)
	}

	event := models.NewEvent(utils.NewID(), title)
	event.Venue = req.Venue
	event.StartAt = req.StartAt
	if err := s.eventRepo.Create(ctx, event); err != nil {
		slog.Error("Failed to create event", "error", err)
		return nil, storeErr(err, "create event")
	}
	slog.Info("Event created", "eventId", event.ID, "title", event.Title)
	return event, nil
}

func (s *EventServiceImpl) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "load event")
	}
	return event, nil
}

func (s *EventServiceImpl) ListEvents(ctx context.Context, page, limit int) ([]*models.Event, error) {
	events, err := s.eventRepo.FindAll(ctx, page, limit)
	if err != nil {
		return nil, storeErr(err, "list events")
	}
	return events, nil
}

// DeleteEvent removes the event and its prizes
func (s *EventServiceImpl) DeleteEvent(ctx context.Context, id string) error {
	unlock, err := s.guard.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.eventRepo.FindByID(ctx, id); err != nil {
		return storeErr(err, "load event")
	}
	prizes, err := s.prizeRepo.FindByEventID(ctx, id)
	if err != nil {
		return storeErr(err, "list prizes")
	}
	for _, p := range prizes {
		if err := s.prizeRepo.Delete(ctx, p.ID); err != nil {
			slog.Error("Failed to delete prize of event", "eventId", id, "prizeId", p.ID, "error", err)
			return storeErr(err, "delete prize")
		}
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return storeErr(err, "delete event")
	}
	slog.Info("Event deleted", "eventId", id, "prizes", len(prizes))
	return nil
}

// ImportAttendees upserts attendees by id. Inputs without an id get a new one.
// An existing attendee keeps its check-in unless the input checks it in.
func (s *EventServiceImpl) ImportAttendees(ctx context.Context, eventID string, inputs []models.AttendeeInput) (*models.AttendeeImportResult, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no attendees to import", models.ErrInvalidArgument)
	}
	for i, in := range inputs {
		if strings.TrimSpace(in.Name) == "" {
			return nil, fmt.Errorf("%w: attendee %d has no name", models.ErrInvalidArgument, i+1)
		}
	}

	result := &models.AttendeeImportResult{}
	err := s.updateEvent(ctx, eventID, func(event *models.Event) error {
		for _, in := range inputs {
			a := models.Attendee{
				ID:        strings.TrimSpace(in.ID),
				Name:      strings.TrimSpace(in.Name),
				Company:   in.Company,
				Table:     in.Table,
				CheckedIn: in.CheckedIn,
			}
			if a.ID == "" {
				a.ID = utils.NewID()
			}
			if i := event.FindAttendee(a.ID); i >= 0 {
				a.CheckedIn = a.CheckedIn || event.Attendees[i].CheckedIn
				event.Attendees[i] = a
				result.Updated++
				continue
			}
			event.Attendees = append(event.Attendees, a)
			result.Added++
		}
		result.Total = len(event.Attendees)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Attendees imported", "eventId", eventID, "added", result.Added, "updated", result.Updated)
	return result, nil
}

// CheckIn marks an attendee present, which makes them eligible for draws
func (s *EventServiceImpl) CheckIn(ctx context.Context, eventID, attendeeID string) (*models.Attendee, error) {
	return s.setCheckedIn(ctx, eventID, attendeeID, true)
}

// UndoCheckIn takes an attendee out of future draws. A prize already won stays won.
func (s *EventServiceImpl) UndoCheckIn(ctx context.Context, eventID, attendeeID string) (*models.Attendee, error) {
	return s.setCheckedIn(ctx, eventID, attendeeID, false)
}

func (s *EventServiceImpl) setCheckedIn(ctx context.Context, eventID, attendeeID string, checkedIn bool) (*models.Attendee, error) {
	var out models.Attendee
	err := s.updateEvent(ctx, eventID, func(event *models.Event) error {
		i := event.FindAttendee(attendeeID)
		if i < 0 {
			return fmt.Errorf("%w: %s", models.ErrAttendeeNotFound, attendeeID)
		}
		event.Attendees[i].CheckedIn = checkedIn
		out = event.Attendees[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Attendee check-in changed", "eventId", eventID, "attendeeId", attendeeID, "checkedIn", checkedIn)
	return &out, nil
}

// updateEvent loads, mutates and saves the event under its lock
func (s *EventServiceImpl) updateEvent(ctx context.Context, eventID string, mutate func(*models.Event) error) error {
	unlock, err := s.guard.lock(ctx, eventID)
	if err != nil {
		return err
	}
	defer unlock()

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return storeErr(err, "load event")
	}
	if err := mutate(event); err != nil {
		return err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		slog.Error("Failed to update event", "eventId", eventID, "error", err)
		return storeErr(err, "update event")
	}
	return nil
}
