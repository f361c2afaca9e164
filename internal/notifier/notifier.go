// Package notifier publishes draw notifications to display screens and the
// message broker. Publishing is best effort: a failure never undoes a draw.
package notifier

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/google/uuid"
)

// Notifier publishes a notification on the topic of its event
type Notifier interface {
	Publish(ctx context.Context, n models.DrawNotification) error
}

// Multi publishes to every notifier and joins their errors
type Multi []Notifier

func NewMulti(notifiers ...Notifier) Multi {
	out := make(Multi, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (m Multi) Publish(ctx context.Context, n models.DrawNotification) error {
	var errs []error
	for _, nt := range m {
		if err := nt.Publish(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards everything
type Nop struct{}

func (Nop) Publish(context.Context, models.DrawNotification) error { return nil }

func newNotification(eventID string, kind models.NotificationKind) models.DrawNotification {
	return models.DrawNotification{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
}

func WinnerAdded(eventID string, w models.Winner) models.DrawNotification {
	n := newNotification(eventID, models.NotificationWinnerAdded)
	n.Winner = &w
	n.WinnerID = w.ID
	n.PrizeID = w.PrizeID
	n.PrizeName = w.PrizeName
	return n
}

func WinnerRemoved(eventID, winnerID string) models.DrawNotification {
	n := newNotification(eventID, models.NotificationWinnerRemoved)
	n.WinnerID = winnerID
	return n
}

func AllWinnersRemoved(eventID string, removed int) models.DrawNotification {
	n := newNotification(eventID, models.NotificationAllWinnersRemoved)
	n.Removed = removed
	return n
}

func DrawStarted(eventID string) models.DrawNotification {
	return newNotification(eventID, models.NotificationDrawStarted)
}

func PrizeSelected(eventID string, p *models.Prize) models.DrawNotification {
	n := newNotification(eventID, models.NotificationPrizeSelected)
	n.PrizeID = p.ID
	n.PrizeName = p.Name
	return n
}

func ControllerStatus(eventID string, online bool) models.DrawNotification {
	n := newNotification(eventID, models.NotificationControllerStatus)
	n.Status = "offline"
	if online {
		n.Status = "online"
	}
	return n
}
