// Package draw holds the lucky-draw engine: inventory ledger, eligibility
// filter, order sequencer, winner registry and the engine that drives them.
//
// Nothing in this package performs I/O or locking. Callers load an Aggregate,
// hold the per-event lock while the engine mutates it, persist the result and
// call Change.Rollback if persisting fails.
package draw

import (
	"sort"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
)

// Aggregate is one event together with the prizes that belong to it
type Aggregate struct {
	Event  *models.Event
	Prizes map[string]*models.Prize
}

// NewAggregate indexes prizes by id. The aggregate takes ownership of the
// pointers it is given.
func NewAggregate(event *models.Event, prizes []*models.Prize) *Aggregate {
	byID := make(map[string]*models.Prize, len(prizes))
	for _, p := range prizes {
		if p == nil {
			continue
		}
		byID[p.ID] = p
	}
	if event.Winners == nil {
		event.Winners = []models.Winner{}
	}
	return &Aggregate{Event: event, Prizes: byID}
}

// Prize returns the prize with the given id, or nil if it does not exist
func (a *Aggregate) Prize(id string) *models.Prize {
	return a.Prizes[id]
}

// prizesByID returns the listed prizes that still exist, sorted by id
func (a *Aggregate) prizesByID(ids map[string]int) []*models.Prize {
	out := make([]*models.Prize, 0, len(ids))
	for id := range ids {
		if p, ok := a.Prizes[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
