package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewStore wires every repository onto one gorm connection
func NewStore(db *gorm.DB) repositories.Store {
	return repositories.Store{
		Events:        &EventRepository{db: db},
		Prizes:        &PrizeRepository{db: db},
		Draws:         &DrawRepository{db: db},
		Notifications: &NotificationRepository{db: db},
		Operators:     &OperatorRepository{db: db},
	}
}

type EventRepository struct {
	db *gorm.DB
}

var _ repositories.EventRepository = (*EventRepository)(nil)

func preloadAggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Attendees", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Preload("Winners", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") })
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	rec := toEventRecord(event)
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	var rec eventRecord
	err := preloadAggregate(r.db.WithContext(ctx)).First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrEventNotFound
		}
		return nil, err
	}
	return rec.toModel(), nil
}

// Update rewrites the event row and replaces its attendees. Winners, the draw
// counter and the revision are left to SaveDraw.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now()
	rec := toEventRecord(event)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&eventRecord{}).Where("id = ?", rec.ID).Updates(map[string]interface{}{
			"title":      rec.Title,
			"venue":      rec.Venue,
			"start_at":   rec.StartAt,
			"status":     rec.Status,
			"updated_at": rec.UpdatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrEventNotFound
		}
		return replaceChildren(tx, &attendeeRecord{}, rec.ID, rec.Attendees)
	})
}

func replaceChildren[T any](tx *gorm.DB, model interface{}, eventID string, rows []T) error {
	if err := tx.Where("event_id = ?", eventID).Delete(model).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&winnerRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&attendeeRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&eventRecord{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrEventNotFound
		}
		return nil
	})
}

func (r *EventRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Event, error) {
	if page < 1 {
		page = 1
	}
	q := preloadAggregate(r.db.WithContext(ctx)).Order("created_at desc")
	if limit > 0 {
		q = q.Offset((page - 1) * limit).Limit(limit)
	}

	var recs []eventRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	events := make([]*models.Event, 0, len(recs))
	for _, rec := range recs {
		events = append(events, rec.toModel())
	}
	return events, nil
}

type PrizeRepository struct {
	db *gorm.DB
}

var _ repositories.PrizeRepository = (*PrizeRepository)(nil)

func (r *PrizeRepository) Create(ctx context.Context, prize *models.Prize) error {
	prize.CreatedAt = time.Now()
	prize.UpdatedAt = prize.CreatedAt
	rec := toPrizeRecord(prize)
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *PrizeRepository) FindByID(ctx context.Context, id string) (*models.Prize, error) {
	var rec prizeRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrPrizeNotFound
		}
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *PrizeRepository) FindByEventID(ctx context.Context, eventID string) ([]*models.Prize, error) {
	var recs []prizeRecord
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at, id").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	prizes := make([]*models.Prize, 0, len(recs))
	for _, rec := range recs {
		prizes = append(prizes, rec.toModel())
	}
	return prizes, nil
}

func (r *PrizeRepository) Update(ctx context.Context, prize *models.Prize) error {
	prize.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Model(&prizeRecord{}).Where("id = ?", prize.ID).Updates(map[string]interface{}{
		"name":       prize.Name,
		"picture":    prize.Picture,
		"stock":      prize.Stock,
		"updated_at": prize.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrPrizeNotFound
	}
	return nil
}

func (r *PrizeRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&prizeRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrPrizeNotFound
	}
	return nil
}

type DrawRepository struct {
	db *gorm.DB
}

var _ repositories.DrawRepository = (*DrawRepository)(nil)

// SaveDraw replaces the winners, advances the counter and sets prize stock in one transaction
func (r *DrawRepository) SaveDraw(ctx context.Context, event *models.Event, prizes []*models.Prize) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		// Row lock on the event so a second replica writing the same event waits here.
		var locked eventRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id", "revision").First(&locked, "id = ?", event.ID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrEventNotFound
			}
			return err
		}
		if locked.Revision != event.Revision {
			return models.ErrStaleDraw
		}

		if err := tx.Model(&eventRecord{}).Where("id = ?", event.ID).Updates(map[string]interface{}{
			"max_order":  event.MaxOrder,
			"revision":   event.Revision + 1,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}
		if err := replaceChildren(tx, &winnerRecord{}, event.ID, toWinnerRecords(event.ID, event.Winners)); err != nil {
			return err
		}

		for _, p := range prizes {
			res := tx.Model(&prizeRecord{}).
				Where("id = ? AND event_id = ?", p.ID, event.ID).
				Updates(map[string]interface{}{"stock": p.Stock, "updated_at": now})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", models.ErrPrizeNotFound, p.ID)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	event.Revision++
	return nil
}

type NotificationRepository struct {
	db *gorm.DB
}

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(ctx context.Context, n *models.DrawNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	rec := notificationRecord{
		ID:        n.ID,
		EventID:   n.EventID,
		Kind:      string(n.Kind),
		Payload:   payload,
		CreatedAt: n.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *NotificationRepository) FindByEventID(ctx context.Context, eventID string, limit int) ([]*models.DrawNotification, error) {
	q := r.db.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recs []notificationRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}

	out := make([]*models.DrawNotification, 0, len(recs))
	for _, rec := range recs {
		var n models.DrawNotification
		if err := json.Unmarshal(rec.Payload, &n); err != nil {
			return nil, fmt.Errorf("decode notification %s: %w", rec.ID, err)
		}
		out = append(out, &n)
	}
	return out, nil
}

type OperatorRepository struct {
	db *gorm.DB
}

var _ repositories.OperatorRepository = (*OperatorRepository)(nil)

func (r *OperatorRepository) Create(ctx context.Context, op *models.Operator) error {
	op.CreatedAt = time.Now()
	op.UpdatedAt = op.CreatedAt
	rec := operatorRecord{
		ID:        op.ID,
		Email:     op.Email,
		Password:  op.Password,
		Role:      op.Role,
		CreatedAt: op.CreatedAt,
		UpdatedAt: op.UpdatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *OperatorRepository) FindByEmail(ctx context.Context, email string) (*models.Operator, error) {
	var rec operatorRecord
	if err := r.db.WithContext(ctx).First(&rec, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOperatorNotFound
		}
		return nil, err
	}
	return &models.Operator{
		ID:        rec.ID,
		Email:     rec.Email,
		Password:  rec.Password,
		Role:      rec.Role,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}
