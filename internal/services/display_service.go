package services

import (
	"context"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/notifier"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

var _ DisplayService = (*DisplayServiceImpl)(nil)

// DisplayServiceImpl lets the control panel cue the display screens of an event
type DisplayServiceImpl struct {
	eventRepo     repositories.EventRepository
	prizes        PrizeService
	hub           *notifier.Hub
	notifier      notifier.Notifier
	notifyTimeout time.Duration
}

// NewDisplayService creates a DisplayServiceImpl. Screens subscribe on hub;
// cues are published through n, which is expected to include hub.
func NewDisplayService(eventRepo repositories.EventRepository, prizes PrizeService, hub *notifier.Hub, n notifier.Notifier, notifyTimeout time.Duration) *DisplayServiceImpl {
	if n == nil {
		n = hub
	}
	if notifyTimeout <= 0 {
		notifyTimeout = 3 * time.Second
	}
	return &DisplayServiceImpl{
		eventRepo:     eventRepo,
		prizes:        prizes,
		hub:           hub,
		notifier:      n,
		notifyTimeout: notifyTimeout,
	}
}

// Subscribe joins the display room of an existing event
func (s *DisplayServiceImpl) Subscribe(ctx context.Context, eventID string, role notifier.Role) (*notifier.Subscription, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, storeErr(err, "load event")
	}
	return s.hub.Subscribe(eventID, role), nil
}

func (s *DisplayServiceImpl) StartDraw(ctx context.Context, eventID string) error {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return storeErr(err, "load event")
	}
	s.publish(notifier.DrawStarted(eventID))
	return nil
}

func (s *DisplayServiceImpl) SelectPrize(ctx context.Context, eventID, prizeID string) (*models.Prize, error) {
	prize, err := s.prizes.GetPrize(ctx, eventID, prizeID)
	if err != nil {
		return nil, err
	}
	s.publish(notifier.PrizeSelected(eventID, prize))
	return prize, nil
}

func (s *DisplayServiceImpl) publish(n models.DrawNotification) {
	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()
	if err := s.notifier.Publish(ctx, n); err != nil {
		slog.Warn("Failed to publish display cue", "eventId", n.EventID, "kind", n.Kind, "error", err)
	}
}
