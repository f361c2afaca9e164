package draw

import (
	"fmt"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
)

// Ledger tracks the remaining units of each prize in an aggregate.
//
// For any prize: initial stock == current stock + units held by live winners.
type Ledger struct {
	prizes map[string]*models.Prize
}

func NewLedger(agg *Aggregate) *Ledger {
	return &Ledger{prizes: agg.Prizes}
}

// Reserve takes min(count, stock) units of the prize and reports how many were taken.
// It fails with ErrOutOfStock when nothing is left.
func (l *Ledger) Reserve(prizeID string, count int) (int, error) {
	if count <= 0 {
		return 0, fmt.Errorf("%w: reserve count must be positive, got %d", models.ErrInvalidArgument, count)
	}
	p, ok := l.prizes[prizeID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", models.ErrPrizeNotFound, prizeID)
	}
	if p.Stock <= 0 {
		return 0, fmt.Errorf("%w: %s", models.ErrOutOfStock, p.Name)
	}
	n := count
	if p.Stock < n {
		n = p.Stock
	}
	p.Stock -= n
	return n, nil
}

// Restore gives units back to a prize. It returns false when the prize no
// longer exists, in which case nothing is restored.
func (l *Ledger) Restore(prizeID string, count int) bool {
	p, ok := l.prizes[prizeID]
	if !ok || count <= 0 {
		return ok
	}
	p.Stock += count
	return true
}

// Stock returns the remaining units of a prize
func (l *Ledger) Stock(prizeID string) (int, bool) {
	p, ok := l.prizes[prizeID]
	if !ok {
		return 0, false
	}
	return p.Stock, true
}
