package repositories

import (
	"context"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
)

// EventRepository defines the interface for event aggregate operations.
// Attendees, winners and the draw counter are loaded with the event. Update
// writes the event fields and attendees only; draw state belongs to SaveDraw.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context, page, limit int) ([]*models.Event, error)
}

// PrizeRepository defines the interface for prize operations.
// Prizes are stored apart from the event document.
type PrizeRepository interface {
	Create(ctx context.Context, prize *models.Prize) error
	FindByID(ctx context.Context, id string) (*models.Prize, error)
	FindByEventID(ctx context.Context, eventID string) ([]*models.Prize, error)
	Update(ctx context.Context, prize *models.Prize) error
	Delete(ctx context.Context, id string) error
}

// DrawRepository persists the outcome of a draw or removal.
//
// SaveDraw writes the event's winner list and draw counter together with the
// stock of every given prize as one atomic unit: either all of it is durable
// or none of it is. The write only applies while the stored Revision still
// equals event.Revision, otherwise it fails with models.ErrStaleDraw. On
// success event.Revision is advanced.
type DrawRepository interface {
	SaveDraw(ctx context.Context, event *models.Event, prizes []*models.Prize) error
}

// NotificationRepository keeps the feed of draw notifications per event
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.DrawNotification) error
	FindByEventID(ctx context.Context, eventID string, limit int) ([]*models.DrawNotification, error)
}

// OperatorRepository defines the interface for control-panel accounts
type OperatorRepository interface {
	Create(ctx context.Context, operator *models.Operator) error
	FindByEmail(ctx context.Context, email string) (*models.Operator, error)
}

// Store bundles the repositories of one storage backend
type Store struct {
	Events        EventRepository
	Prizes        PrizeRepository
	Draws         DrawRepository
	Notifications NotificationRepository
	Operators     OperatorRepository
}
