package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/draw"
	"github.com/ArowuTest/luckydraw-backend/internal/locker"
	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/notifier"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
)

// LuckyDrawService defines the caller-facing draw operations of an event
type LuckyDrawService interface {
	// DrawOne awards one unit of a prize, at random or to the given attendee
	DrawOne(ctx context.Context, eventID, prizeID, attendeeID string) (*models.Winner, error)

	// DrawBatch awards up to count units of a prize to distinct attendees
	DrawBatch(ctx context.Context, eventID, prizeID string, count int) (*models.BatchResult, error)

	// RemoveWinner deletes one winner and gives the unit back to its prize
	RemoveWinner(ctx context.Context, eventID, winnerID string) (*models.Winner, error)

	// RemoveAllWinners clears the winner list and restores stock per prize
	RemoveAllWinners(ctx context.Context, eventID string) (int, error)

	// ListWinners returns the winners sorted by draw order
	ListWinners(ctx context.Context, eventID string) ([]models.Winner, error)

	// ListEligible returns the checked-in attendees who have not won yet
	ListEligible(ctx context.Context, eventID string) ([]models.Attendee, error)
}

// PrizeService defines the interface for prize management
type PrizeService interface {
	CreatePrize(ctx context.Context, eventID string, req models.PrizeRequest) (*models.Prize, error)
	ListPrizes(ctx context.Context, eventID string) ([]*models.Prize, error)
	GetPrize(ctx context.Context, eventID, prizeID string) (*models.Prize, error)
	UpdatePrize(ctx context.Context, eventID, prizeID string, req models.PrizeRequest) (*models.Prize, error)
	DeletePrize(ctx context.Context, eventID, prizeID string) error
}

// EventService defines the interface for events and their guest lists
type EventService interface {
	CreateEvent(ctx context.Context, req models.CreateEventRequest) (*models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, page, limit int) ([]*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ImportAttendees(ctx context.Context, eventID string, attendees []models.AttendeeInput) (*models.AttendeeImportResult, error)
	CheckIn(ctx context.Context, eventID, attendeeID string) (*models.Attendee, error)
	UndoCheckIn(ctx context.Context, eventID, attendeeID string) (*models.Attendee, error)
}

// DisplayService drives the display screens of an event
type DisplayService interface {
	Subscribe(ctx context.Context, eventID string, role notifier.Role) (*notifier.Subscription, error)
	StartDraw(ctx context.Context, eventID string) error
	SelectPrize(ctx context.Context, eventID, prizeID string) (*models.Prize, error)
}

// AuthService defines the interface for operator authentication
type AuthService interface {
	// Login returns a signed token for valid credentials
	Login(ctx context.Context, req models.LoginRequest) (string, *models.Operator, error)

	// SeedOperator creates the operator unless one with that email exists
	SeedOperator(ctx context.Context, email, password string) error
}

// NotificationService gives access to the recorded notification feed
type NotificationService interface {
	ListNotifications(ctx context.Context, eventID string, limit int) ([]*models.DrawNotification, error)
}

// eventGuard takes the per-event lock with an upper bound on the wait
type eventGuard struct {
	locker  locker.Locker
	timeout time.Duration
}

func (g eventGuard) lock(ctx context.Context, eventID string) (func(), error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	unlock, err := g.locker.Lock(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: lock event %s: %v", models.ErrPersistence, eventID, err)
	}
	return unlock, nil
}

// storeErr keeps domain errors as they are and marks anything else from the
// storage layer as a persistence failure
func storeErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if models.KindOf(err) != models.KindInternal {
		return err
	}
	return fmt.Errorf("%w: %s: %v", models.ErrPersistence, op, err)
}

// loadAggregate reads an event together with its prizes
func loadAggregate(ctx context.Context, events repositories.EventRepository, prizes repositories.PrizeRepository, eventID string) (*draw.Aggregate, error) {
	event, err := events.FindByID(ctx, eventID)
	if err != nil {
		return nil, storeErr(err, "load event")
	}
	list, err := prizes.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, storeErr(err, "load prizes")
	}
	return draw.NewAggregate(event, list), nil
}
