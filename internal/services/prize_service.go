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

var _ PrizeService = (*PrizeServiceImpl)(nil)

// PrizeServiceImpl manages the prizes of an event. Stock edits and deletions
// take the event lock so they never interleave with a draw.
type PrizeServiceImpl struct {
	eventRepo repositories.EventRepository
	prizeRepo repositories.PrizeRepository
	guard     eventGuard
}

func NewPrizeService(eventRepo repositories.EventRepository, prizeRepo repositories.PrizeRepository, lk locker.Locker, lockTimeout time.Duration) *PrizeServiceImpl {
	return &PrizeServiceImpl{
		eventRepo: eventRepo,
		prizeRepo: prizeRepo,
		guard:     eventGuard{locker: lk, timeout: lockTimeout},
	}
}

func validatePrizeRequest(req models.PrizeRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: prize name is required", models.ErrInvalidArgument)
	}
	if req.Stock != nil && *req.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", models.ErrInvalidArgument)
	}
	return nil
}

// CreatePrize adds a prize to the event. Stock defaults to one unit.
func (s *PrizeServiceImpl) CreatePrize(ctx context.Context, eventID string, req models.PrizeRequest) (*models.Prize, error) {
	if err := validatePrizeRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, storeErr(err, "load event")
	}

	prize := &models.Prize{
		ID:      utils.NewID(),
		EventID: eventID,
		Name:    strings.TrimSpace(req.Name),
		Picture: req.Picture,
		Stock:   models.DefaultPrizeStock,
	}
	if req.Stock != nil {
		prize.Stock = *req.Stock
	}
	if err := s.prizeRepo.Create(ctx, prize); err != nil {
		slog.Error("Failed to create prize", "eventId", eventID, "error", err)
		return nil, storeErr(err, "create prize")
	}
	slog.Info("Prize created", "eventId", eventID, "prizeId", prize.ID, "stock", prize.Stock)
	return prize, nil
}

func (s *PrizeServiceImpl) ListPrizes(ctx context.Context, eventID string) ([]*models.Prize, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, storeErr(err, "load event")
	}
	prizes, err := s.prizeRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, storeErr(err, "list prizes")
	}
	return prizes, nil
}

// GetPrize returns the prize only if it belongs to the event
func (s *PrizeServiceImpl) GetPrize(ctx context.Context, eventID, prizeID string) (*models.Prize, error) {
	prize, err := s.prizeRepo.FindByID(ctx, prizeID)
	if err != nil {
		return nil, storeErr(err, "load prize")
	}
	if prize.EventID != eventID {
		return nil, fmt.Errorf("%w: %s", models.ErrPrizeNotFound, prizeID)
	}
	return prize, nil
}

// UpdatePrize changes name, picture and, when given, the stock
func (s *PrizeServiceImpl) UpdatePrize(ctx context.Context, eventID, prizeID string, req models.PrizeRequest) (*models.Prize, error) {
	if err := validatePrizeRequest(req); err != nil {
		return nil, err
	}
	unlock, err := s.guard.lock(ctx, eventID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	prize, err := s.GetPrize(ctx, eventID, prizeID)
	if err != nil {
		return nil, err
	}
	prize.Name = strings.TrimSpace(req.Name)
	prize.Picture = req.Picture
	if req.Stock != nil {
		prize.Stock = *req.Stock
	}
	if err := s.prizeRepo.Update(ctx, prize); err != nil {
		slog.Error("Failed to update prize", "eventId", eventID, "prizeId", prizeID, "error", err)
		return nil, storeErr(err, "update prize")
	}
	return prize, nil
}

// DeletePrize removes the prize. Existing winners keep their prize snapshot.
func (s *PrizeServiceImpl) DeletePrize(ctx context.Context, eventID, prizeID string) error {
	unlock, err := s.guard.lock(ctx, eventID)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.GetPrize(ctx, eventID, prizeID); err != nil {
		return err
	}
	if err := s.prizeRepo.Delete(ctx, prizeID); err != nil {
		slog.Error("Failed to delete prize", "eventId", eventID, "prizeId", prizeID, "error", err)
		return storeErr(err, "delete prize")
	}
	slog.Info("Prize deleted", "eventId", eventID, "prizeId", prizeID)
	return nil
}
