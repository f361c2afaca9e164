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
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure LuckyDrawServiceImpl implements LuckyDrawService
var _ LuckyDrawService = (*LuckyDrawServiceImpl)(nil)

// LuckyDrawOptions tunes a LuckyDrawService. Zero values fall back to defaults.
type LuckyDrawOptions struct {
	NotifyTimeout time.Duration
	LockTimeout   time.Duration
	MaxBatch      int
}

// LuckyDrawServiceImpl runs every mutation of an event inside the event lock:
// load, apply the engine, persist, and roll back when persisting fails.
// Notifications go out after the lock is released.
type LuckyDrawServiceImpl struct {
	eventRepo     repositories.EventRepository
	prizeRepo     repositories.PrizeRepository
	drawRepo      repositories.DrawRepository
	engine        *draw.Engine
	guard         eventGuard
	notifier      notifier.Notifier
	notifyTimeout time.Duration
	maxBatch      int
}

// NewLuckyDrawService creates a new LuckyDrawServiceImpl
func NewLuckyDrawService(
	eventRepo repositories.EventRepository,
	prizeRepo repositories.PrizeRepository,
	drawRepo repositories.DrawRepository,
	engine *draw.Engine,
	lk locker.Locker,
	n notifier.Notifier,
	opts LuckyDrawOptions,
) *LuckyDrawServiceImpl {
	if n == nil {
		n = notifier.Nop{}
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 3 * time.Second
	}
	return &LuckyDrawServiceImpl{
		eventRepo:     eventRepo,
		prizeRepo:     prizeRepo,
		drawRepo:      drawRepo,
		engine:        engine,
		guard:         eventGuard{locker: lk, timeout: opts.LockTimeout},
		notifier:      n,
		notifyTimeout: opts.NotifyTimeout,
		maxBatch:      opts.MaxBatch,
	}
}

// DrawOne draws one winner for the prize
func (s *LuckyDrawServiceImpl) DrawOne(ctx context.Context, eventID, prizeID, attendeeID string) (*models.Winner, error) {
	change, err := s.mutate(ctx, eventID, func(agg *draw.Aggregate) (*draw.Change, error) {
		return s.engine.DrawOne(agg, prizeID, attendeeID)
	})
	if err != nil {
		return nil, err
	}

	w := change.Added[0]
	slog.Info("Winner drawn", "eventId", eventID, "prizeId", prizeID, "winnerId", w.ID, "order", w.Order, "manual", attendeeID != "")
	s.publish(notifier.WinnerAdded(eventID, w))
	return &w, nil
}

// DrawBatch draws min(count, stock, pool) winners for the prize
func (s *LuckyDrawServiceImpl) DrawBatch(ctx context.Context, eventID, prizeID string, count int) (*models.BatchResult, error) {
	if s.maxBatch > 0 && count > s.maxBatch {
		return nil, fmt.Errorf("%w: count %d exceeds the batch limit of %d", models.ErrInvalidArgument, count, s.maxBatch)
	}
	change, err := s.mutate(ctx, eventID, func(agg *draw.Aggregate) (*draw.Change, error) {
		return s.engine.DrawBatch(agg, prizeID, count)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Batch drawn", "eventId", eventID, "prizeId", prizeID, "requested", count, "actual", len(change.Added))
	ns := make([]models.DrawNotification, 0, len(change.Added))
	for _, w := range change.Added {
		ns = append(ns, notifier.WinnerAdded(eventID, w))
	}
	s.publish(ns...)

	return &models.BatchResult{
		Winners:     change.Added,
		ActualCount: len(change.Added),
		Requested:   count,
	}, nil
}

// RemoveWinner removes a winner and restores one unit of its prize
func (s *LuckyDrawServiceImpl) RemoveWinner(ctx context.Context, eventID, winnerID string) (*models.Winner, error) {
	change, err := s.mutate(ctx, eventID, func(agg *draw.Aggregate) (*draw.Change, error) {
		return s.engine.RemoveOne(agg, winnerID)
	})
	if err != nil {
		return nil, err
	}

	w := change.Removed[0]
	slog.Info("Winner removed", "eventId", eventID, "winnerId", w.ID, "prizeId", w.PrizeID, "order", w.Order)
	s.publish(notifier.WinnerRemoved(eventID, w.ID))
	return &w, nil
}

// RemoveAllWinners removes every winner of the event and returns how many were removed
func (s *LuckyDrawServiceImpl) RemoveAllWinners(ctx context.Context, eventID string) (int, error) {
	change, err := s.mutate(ctx, eventID, func(agg *draw.Aggregate) (*draw.Change, error) {
		return s.engine.RemoveAll(agg), nil
	})
	if err != nil {
		return 0, err
	}

	removed := len(change.Removed)
	slog.Info("All winners removed", "eventId", eventID, "removed", removed)
	s.publish(notifier.AllWinnersRemoved(eventID, removed))
	return removed, nil
}

func (s *LuckyDrawServiceImpl) ListWinners(ctx context.Context, eventID string) ([]models.Winner, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, storeErr(err, "load event")
	}
	return draw.SortedWinners(event), nil
}

func (s *LuckyDrawServiceImpl) ListEligible(ctx context.Context, eventID string) ([]models.Attendee, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, storeErr(err, "load event")
	}
	return draw.Eligible(event), nil
}

// mutate holds the event lock from the first read until the change is durable
func (s *LuckyDrawServiceImpl) mutate(ctx context.Context, eventID string, apply func(*draw.Aggregate) (*draw.Change, error)) (*draw.Change, error) {
	unlock, err := s.guard.lock(ctx, eventID)
	if err != nil {
		slog.Error("Failed to lock event", "eventId", eventID, "error", err)
		return nil, err
	}
	defer unlock()

	agg, err := loadAggregate(ctx, s.eventRepo, s.prizeRepo, eventID)
	if err != nil {
		return nil, err
	}

	change, err := apply(agg)
	if err != nil {
		return nil, err
	}

	if err := s.drawRepo.SaveDraw(ctx, agg.Event, change.Prizes()); err != nil {
		change.Rollback()
		slog.Error("Failed to persist draw, change rolled back", "eventId", eventID, "error", err)
		return nil, fmt.Errorf("%w: save draw for event %s: %v", models.ErrPersistence, eventID, err)
	}
	return change, nil
}

// publish is best effort and runs detached from the request context
func (s *LuckyDrawServiceImpl) publish(ns ...models.DrawNotification) {
	if len(ns) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()
	for _, n := range ns {
		if err := s.notifier.Publish(ctx, n); err != nil {
			slog.Warn("Failed to publish draw notification", "eventId", n.EventID, "kind", n.Kind, "error", err)
		}
	}
}
