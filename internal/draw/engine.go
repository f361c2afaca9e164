package draw

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
)

// Engine selects winners and applies draws and removals to an aggregate.
// One engine is shared by all events; the random source is guarded by a mutex.
type Engine struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewEngine returns an engine seeded from the clock, so draws differ between runs
func NewEngine() *Engine {
	return NewEngineWithSeed(time.Now().UnixNano())
}

func NewEngineWithSeed(seed int64) *Engine {
	return &Engine{
		rnd: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// Change records one mutation of an aggregate so it can be persisted or undone
type Change struct {
	agg          *Aggregate
	prevMaxOrder int
	prevWinners  []models.Winner
	rolledBack   bool

	Added      []models.Winner
	Removed    []models.Winner
	StockDelta map[string]int
}

func (e *Engine) begin(agg *Aggregate) *Change {
	return &Change{
		agg:          agg,
		prevMaxOrder: agg.Event.MaxOrder,
		prevWinners:  append([]models.Winner(nil), agg.Event.Winners...),
		StockDelta:   map[string]int{},
	}
}

// Prizes returns the prizes whose stock this change touched
func (c *Change) Prizes() []*models.Prize {
	return c.agg.prizesByID(c.StockDelta)
}

// Rollback undoes the change: reserved units go back to the ledger, restored
// units are taken out again, and the winner list and counter are reset.
func (c *Change) Rollback() {
	if c.rolledBack {
		return
	}
	c.rolledBack = true

	ledger := NewLedger(c.agg)
	for id, delta := range c.StockDelta {
		switch {
		case delta < 0:
			ledger.Restore(id, -delta)
		case delta > 0:
			if p := c.agg.Prize(id); p != nil {
				p.Stock -= delta
			}
		}
	}
	c.agg.Event.Winners = c.prevWinners
	if c.agg.Event.Winners == nil {
		c.agg.Event.Winners = []models.Winner{}
	}
	c.agg.Event.MaxOrder = c.prevMaxOrder
}

// DrawOne awards one unit of a prize. With attendeeID empty the winner is picked
// uniformly at random from the eligible pool; otherwise that attendee is drawn.
func (e *Engine) DrawOne(agg *Aggregate, prizeID, attendeeID string) (*Change, error) {
	prize, err := e.drawablePrize(agg, prizeID)
	if err != nil {
		return nil, err
	}

	registry := NewRegistry(agg.Event)
	var picked models.Attendee
	if attendeeID != "" {
		if registry.Has(attendeeID) {
			return nil, fmt.Errorf("%w: %s", models.ErrAlreadyWon, attendeeID)
		}
		i := agg.Event.FindAttendee(attendeeID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", models.ErrAttendeeNotFound, attendeeID)
		}
		picked = agg.Event.Attendees[i]
		if !picked.CheckedIn {
			return nil, fmt.Errorf("%w: attendee %s is not checked in", models.ErrInvalidArgument, attendeeID)
		}
	} else {
		pool := Eligible(agg.Event)
		if len(pool) == 0 {
			return nil, models.ErrNoEligibleAttendees
		}
		picked = pool[e.intn(len(pool))]
	}

	change := e.begin(agg)
	ledger := NewLedger(agg)
	if _, err := ledger.Reserve(prize.ID, 1); err != nil {
		return nil, err
	}
	change.StockDelta[prize.ID] = -1

	order := NextOrders(agg.Event, 1)[0]
	w := newWinner(picked, prize, order, e.now())
	if err := registry.Add(w); err != nil {
		change.Rollback()
		return nil, err
	}
	change.Added = []models.Winner{w}
	return change, nil
}

// DrawBatch awards up to count units of a prize to distinct attendees.
// The number drawn is capped by the remaining stock and the pool size; units
// reserved beyond what the pool could fill go straight back to the ledger.
// The batch occupies a contiguous range of order numbers.
func (e *Engine) DrawBatch(agg *Aggregate, prizeID string, count int) (*Change, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", models.ErrInvalidArgument, count)
	}
	prize, err := e.drawablePrize(agg, prizeID)
	if err != nil {
		return nil, err
	}

	pool := Eligible(agg.Event)
	if len(pool) == 0 {
		return nil, models.ErrNoEligibleAttendees
	}

	change := e.begin(agg)
	ledger := NewLedger(agg)
	reserved, err := ledger.Reserve(prize.ID, count)
	if err != nil {
		return nil, err
	}
	actual := reserved
	if len(pool) < actual {
		actual = len(pool)
	}
	if reserved > actual {
		ledger.Restore(prize.ID, reserved-actual)
	}
	change.StockDelta[prize.ID] = -actual

	e.shuffle(pool)
	orders := NextOrders(agg.Event, actual)
	registry := NewRegistry(agg.Event)
	now := e.now()
	for i := 0; i < actual; i++ {
		w := newWinner(pool[i], prize, orders[i], now)
		if err := registry.Add(w); err != nil {
			change.Rollback()
			return nil, err
		}
		change.Added = append(change.Added, w)
	}
	return change, nil
}

// RemoveOne deletes a winner and gives its unit back to the prize if the prize
// still exists. The order number is not reclaimed.
func (e *Engine) RemoveOne(agg *Aggregate, winnerID string) (*Change, error) {
	change := e.begin(agg)
	w, err := NewRegistry(agg.Event).RemoveOne(winnerID)
	if err != nil {
		return nil, err
	}
	if NewLedger(agg).Restore(w.PrizeID, 1) {
		change.StockDelta[w.PrizeID] = 1
	}
	change.Removed = []models.Winner{w}
	return change, nil
}

// RemoveAll clears every winner and restores stock per prize in one pass.
// The order counter is left untouched.
func (e *Engine) RemoveAll(agg *Aggregate) *Change {
	change := e.begin(agg)
	removed := NewRegistry(agg.Event).RemoveAll()

	perPrize := map[string]int{}
	for _, w := range removed {
		perPrize[w.PrizeID]++
	}
	ledger := NewLedger(agg)
	for id, n := range perPrize {
		if ledger.Restore(id, n) {
			change.StockDelta[id] = n
		}
	}
	change.Removed = removed
	return change
}

func (e *Engine) drawablePrize(agg *Aggregate, prizeID string) (*models.Prize, error) {
	if prizeID == "" {
		return nil, fmt.Errorf("%w: prize id is required", models.ErrInvalidArgument)
	}
	prize := agg.Prize(prizeID)
	if prize == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrPrizeNotFound, prizeID)
	}
	if prize.Stock <= 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrOutOfStock, prize.Name)
	}
	return prize, nil
}

func (e *Engine) intn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rnd.Intn(n)
}

// shuffle is a Fisher-Yates shuffle in place
func (e *Engine) shuffle(pool []models.Attendee) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := len(pool) - 1; i > 0; i-- {
		j := e.rnd.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
}

func newWinner(a models.Attendee, p *models.Prize, order int, at time.Time) models.Winner {
	return models.Winner{
		ID:        a.ID,
		Name:      a.Name,
		Company:   a.Company,
		Table:     a.Table,
		PrizeID:   p.ID,
		PrizeName: p.Name,
		Order:     order,
		WonAt:     at,
	}
}
