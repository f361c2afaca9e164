// Package memory is a map-backed storage backend. Every read and write copies,
// so callers can never alias stored state.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
)

// DB holds every collection behind one mutex, which is what makes SaveDraw atomic
type DB struct {
	mu            sync.RWMutex
	events        map[string]*models.Event
	prizes        map[string]*models.Prize
	notifications map[string][]*models.DrawNotification
	operators     map[string]*models.Operator
}

func NewDB() *DB {
	return &DB{
		events:        map[string]*models.Event{},
		prizes:        map[string]*models.Prize{},
		notifications: map[string][]*models.DrawNotification{},
		operators:     map[string]*models.Operator{},
	}
}

// NewStore wires every repository onto one DB
func NewStore(db *DB) repositories.Store {
	return repositories.Store{
		Events:        &EventRepository{db: db},
		Prizes:        &PrizeRepository{db: db},
		Draws:         &DrawRepository{db: db},
		Notifications: &NotificationRepository{db: db},
		Operators:     &OperatorRepository{db: db},
	}
}

type EventRepository struct{ db *DB }

var _ repositories.EventRepository = (*EventRepository)(nil)

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	r.db.events[event.ID] = event.Clone()
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	e, ok := r.db.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	return e.Clone(), nil
}

// Update keeps the stored winners, counter and revision
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.events[event.ID]
	if !ok {
		return models.ErrEventNotFound
	}
	event.UpdatedAt = time.Now()
	updated := event.Clone()
	updated.Winners = append([]models.Winner{}, stored.Winners...)
	updated.MaxOrder = stored.MaxOrder
	updated.Revision = stored.Revision
	updated.CreatedAt = stored.CreatedAt
	r.db.events[event.ID] = updated
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.events[id]; !ok {
		return models.ErrEventNotFound
	}
	delete(r.db.events, id)
	return nil
}

func (r *EventRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Event, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	all := make([]*models.Event, 0, len(r.db.events))
	for _, e := range r.db.events {
		all = append(all, e.Clone())
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		return all, nil
	}
	start := (page - 1) * limit
	if start >= len(all) {
		return []*models.Event{}, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

type PrizeRepository struct{ db *DB }

var _ repositories.PrizeRepository = (*PrizeRepository)(nil)

func clonePrize(p *models.Prize) *models.Prize {
	c := *p
	return &c
}

func (r *PrizeRepository) Create(ctx context.Context, prize *models.Prize) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	prize.CreatedAt = time.Now()
	prize.UpdatedAt = prize.CreatedAt
	r.db.prizes[prize.ID] = clonePrize(prize)
	return nil
}

func (r *PrizeRepository) FindByID(ctx context.Context, id string) (*models.Prize, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.prizes[id]
	if !ok {
		return nil, models.ErrPrizeNotFound
	}
	return clonePrize(p), nil
}

func (r *PrizeRepository) FindByEventID(ctx context.Context, eventID string) ([]*models.Prize, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	prizes := []*models.Prize{}
	for _, p := range r.db.prizes {
		if p.EventID == eventID {
			prizes = append(prizes, clonePrize(p))
		}
	}
	sort.Slice(prizes, func(i, j int) bool {
		if prizes[i].CreatedAt.Equal(prizes[j].CreatedAt) {
			return prizes[i].ID < prizes[j].ID
		}
		return prizes[i].CreatedAt.Before(prizes[j].CreatedAt)
	})
	return prizes, nil
}

func (r *PrizeRepository) Update(ctx context.Context, prize *models.Prize) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.prizes[prize.ID]; !ok {
		return models.ErrPrizeNotFound
	}
	prize.UpdatedAt = time.Now()
	r.db.prizes[prize.ID] = clonePrize(prize)
	return nil
}

func (r *PrizeRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.prizes[id]; !ok {
		return models.ErrPrizeNotFound
	}
	delete(r.db.prizes, id)
	return nil
}

type DrawRepository struct{ db *DB }

var _ repositories.DrawRepository = (*DrawRepository)(nil)

// SaveDraw checks every target first and only then writes, under one lock
func (r *DrawRepository) SaveDraw(ctx context.Context, event *models.Event, prizes []*models.Prize) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.events[event.ID]
	if !ok {
		return models.ErrEventNotFound
	}
	if stored.Revision != event.Revision {
		return models.ErrStaleDraw
	}
	for _, p := range prizes {
		if _, ok := r.db.prizes[p.ID]; !ok {
			return models.ErrPrizeNotFound
		}
	}

	now := time.Now()
	updated := stored.Clone()
	updated.Winners = append([]models.Winner{}, event.Winners...)
	updated.MaxOrder = event.MaxOrder
	updated.Revision = stored.Revision + 1
	updated.UpdatedAt = now
	r.db.events[event.ID] = updated
	event.Revision = updated.Revision

	for _, p := range prizes {
		sp := r.db.prizes[p.ID]
		sp.Stock = p.Stock
		sp.UpdatedAt = now
	}
	return nil
}

type NotificationRepository struct{ db *DB }

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(ctx context.Context, n *models.DrawNotification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := *n
	r.db.notifications[n.EventID] = append(r.db.notifications[n.EventID], &c)
	return nil
}

// FindByEventID returns the newest notifications first
func (r *NotificationRepository) FindByEventID(ctx context.Context, eventID string, limit int) ([]*models.DrawNotification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	list := r.db.notifications[eventID]
	out := []*models.DrawNotification{}
	for i := len(list) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		c := *list[i]
		out = append(out, &c)
	}
	return out, nil
}

type OperatorRepository struct{ db *DB }

var _ repositories.OperatorRepository = (*OperatorRepository)(nil)

func (r *OperatorRepository) Create(ctx context.Context, op *models.Operator) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := *op
	r.db.operators[op.Email] = &c
	return nil
}

func (r *OperatorRepository) FindByEmail(ctx context.Context, email string) (*models.Operator, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	op, ok := r.db.operators[email]
	if !ok {
		return nil, models.ErrOperatorNotFound
	}
	c := *op
	return &c, nil
}
