package draw

import (
	"fmt"
	"sort"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
)

// Registry is the list of winners of one event, indexed by winner id.
// Winners are kept in insertion order inside the event document.
type Registry struct {
	event *models.Event
	index map[string]int
}

func NewRegistry(event *models.Event) *Registry {
	r := &Registry{event: event}
	r.reindex()
	return r
}

func (r *Registry) reindex() {
	r.index = make(map[string]int, len(r.event.Winners))
	for i, w := range r.event.Winners {
		r.index[w.ID] = i
	}
}

// Has reports whether the attendee currently holds a winner record
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Add appends a winner; an attendee can hold at most one record.
func (r *Registry) Add(w models.Winner) error {
	if r.Has(w.ID) {
		return fmt.Errorf("%w: %s", models.ErrAlreadyWon, w.ID)
	}
	r.event.Winners = append(r.event.Winners, w)
	r.index[w.ID] = len(r.event.Winners) - 1
	return nil
}

// RemoveOne deletes a winner record. Stock and order numbers are the
// caller's concern.
func (r *Registry) RemoveOne(id string) (models.Winner, error) {
	i, ok := r.index[id]
	if !ok {
		return models.Winner{}, fmt.Errorf("%w: %s", models.ErrWinnerNotFound, id)
	}
	w := r.event.Winners[i]
	r.event.Winners = append(r.event.Winners[:i], r.event.Winners[i+1:]...)
	r.reindex()
	return w, nil
}

// RemoveAll clears the winner list and returns what was removed
func (r *Registry) RemoveAll() []models.Winner {
	removed := r.event.Winners
	r.event.Winners = []models.Winner{}
	r.index = map[string]int{}
	if removed == nil {
		removed = []models.Winner{}
	}
	return removed
}

// List returns a copy of the winners sorted by draw order
func (r *Registry) List() []models.Winner {
	return SortedWinners(r.event)
}

// SortedWinners returns a copy of the event's winners sorted by draw order
func SortedWinners(event *models.Event) []models.Winner {
	out := make([]models.Winner, len(event.Winners))
	copy(out, event.Winners)
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
