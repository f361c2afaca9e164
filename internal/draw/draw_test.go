package draw

import (
	"fmt"
	"testing"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAggregate(t *testing.T, attendees int, stocks map[string]int) *Aggregate {
	t.Helper()
	event := models.NewEvent("e1", "Annual dinner")
	for i := 0; i < attendees; i++ {
		event.Attendees = append(event.Attendees, models.Attendee{
			ID:        fmt.Sprintf("a%03d", i),
			Name:      fmt.Sprintf("Guest %d", i),
			Company:   "Acme",
			Table:     fmt.Sprintf("T%d", i%10),
			CheckedIn: true,
		})
	}
	prizes := make([]*models.Prize, 0, len(stocks))
	for id, stock := range stocks {
		prizes = append(prizes, &models.Prize{ID: id, EventID: "e1", Name: "Prize " + id, Stock: stock})
	}
	return NewAggregate(event, prizes)
}

func orders(ws []models.Winner) []int {
	out := make([]int, len(ws))
	for i, w := range ws {
		out[i] = w.Order
	}
	return out
}

func TestLedger_Reserve(t *testing.T) {
	agg := newTestAggregate(t, 0, map[string]int{"p1": 3})
	ledger := NewLedger(agg)

	n, err := ledger.Reserve("p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = ledger.Reserve("p1", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "reserve is capped by the remaining stock")

	_, err = ledger.Reserve("p1", 1)
	assert.ErrorIs(t, err, models.ErrOutOfStock)

	_, err = ledger.Reserve("p1", 0)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = ledger.Reserve("missing", 1)
	assert.ErrorIs(t, err, models.ErrPrizeNotFound)

	assert.True(t, ledger.Restore("p1", 3))
	stock, ok := ledger.Stock("p1")
	require.True(t, ok)
	assert.Equal(t, 3, stock)

	assert.False(t, ledger.Restore("missing", 1))
}

func TestEligible_SkipsWinnersAndAbsentees(t *testing.T) {
	agg := newTestAggregate(t, 4, nil)
	agg.Event.Attendees[1].CheckedIn = false
	agg.Event.Winners = []models.Winner{{ID: "a002", Order: 1}}

	pool := Eligible(agg.Event)

	require.Len(t, pool, 2)
	assert.Equal(t, "a000", pool[0].ID)
	assert.Equal(t, "a003", pool[1].ID)
}

func TestNextOrders(t *testing.T) {
	event := models.NewEvent("e1", "x")

	assert.Equal(t, []int{1, 2, 3}, NextOrders(event, 3))
	assert.Equal(t, []int{4}, NextOrders(event, 1))
	assert.Nil(t, NextOrders(event, 0))
	assert.Equal(t, 4, event.MaxOrder)
}

func TestRegistry(t *testing.T) {
	event := models.NewEvent("e1", "x")
	r := NewRegistry(event)

	require.NoError(t, r.Add(models.Winner{ID: "a", Order: 2}))
	require.NoError(t, r.Add(models.Winner{ID: "b", Order: 1}))
	assert.ErrorIs(t, r.Add(models.Winner{ID: "a", Order: 3}), models.ErrAlreadyWon)

	assert.Equal(t, []int{1, 2}, orders(r.List()))

	w, err := r.RemoveOne("a")
	require.NoError(t, err)
	assert.Equal(t, 2, w.Order)
	assert.False(t, r.Has("a"))
	assert.True(t, r.Has("b"))

	_, err = r.RemoveOne("a")
	assert.ErrorIs(t, err, models.ErrWinnerNotFound)

	require.NoError(t, r.Add(models.Winner{ID: "c", Order: 5}))
	removed := r.RemoveAll()
	assert.Len(t, removed, 2)
	assert.Empty(t, r.List())
}

func TestEngine_DrawOne(t *testing.T) {
	engine := NewEngineWithSeed(1)
	agg := newTestAggregate(t, 10, map[string]int{"p1": 5})

	change, err := engine.DrawOne(agg, "p1", "")
	require.NoError(t, err)
	require.Len(t, change.Added, 1)

	w := change.Added[0]
	assert.Equal(t, 1, w.Order)
	assert.Equal(t, "p1", w.PrizeID)
	assert.Equal(t, "Prize p1", w.PrizeName)
	assert.Equal(t, 4, agg.Prize("p1").Stock)
	assert.Equal(t, 1, agg.Event.MaxOrder)
	require.Len(t, change.Prizes(), 1)
}

func TestEngine_DrawOne_Manual(t *testing.T) {
	engine := NewEngineWithSeed(1)
	agg := newTestAggregate(t, 3, map[string]int{"p1": 5})
	agg.Event.Attendees[2].CheckedIn = false

	change, err := engine.DrawOne(agg, "p1", "a001")
	require.NoError(t, err)
	assert.Equal(t, "a001", change.Added[0].ID)
	assert.Equal(t, "Guest 1", change.Added[0].Name)

	_, err = engine.DrawOne(agg, "p1", "a001")
	assert.ErrorIs(t, err, models.ErrAlreadyWon)

	_, err = engine.DrawOne(agg, "p1", "a002")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = engine.DrawOne(agg, "p1", "nobody")
	assert.ErrorIs(t, err, models.ErrAttendeeNotFound)

	assert.Equal(t, 4, agg.Prize("p1").Stock)
	assert.Equal(t, 1, agg.Event.MaxOrder)
}

func TestEngine_DrawOne_Errors(t *testing.T) {
	engine := NewEngineWithSeed(1)

	agg := newTestAggregate(t, 1, map[string]int{"p1": 0, "p2": 2})
	_, err := engine.DrawOne(agg, "", "")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = engine.DrawOne(agg, "nope", "")
	assert.ErrorIs(t, err, models.ErrPrizeNotFound)

	_, err = engine.DrawOne(agg, "p1", "")
	assert.ErrorIs(t, err, models.ErrOutOfStock)

	_, err = engine.DrawOne(agg, "p2", "")
	require.NoError(t, err)
	_, err = engine.DrawOne(agg, "p2", "")
	assert.ErrorIs(t, err, models.ErrNoEligibleAttendees)
	assert.Equal(t, 1, agg.Prize("p2").Stock, "failed draws leave stock alone")
}

func TestEngine_DrawBatch_CappedByStock(t *testing.T) {
	engine := NewEngineWithSeed(7)
	agg := newTestAggregate(t, 100, map[string]int{"p1": 4})

	change, err := engine.DrawBatch(agg, "p1", 10)
	require.NoError(t, err)

	require.Len(t, change.Added, 4)
	assert.Equal(t, 0, agg.Prize("p1").Stock)
	assert.Equal(t, []int{1, 2, 3, 4}, orders(change.Added))

	seen := map[string]bool{}
	for _, w := range change.Added {
		assert.False(t, seen[w.ID], "winner drawn twice: %s", w.ID)
		seen[w.ID] = true
	}

	_, err = engine.DrawBatch(agg, "p1", 1)
	assert.ErrorIs(t, err, models.ErrOutOfStock)
}

func TestEngine_DrawBatch_CappedByPool(t *testing.T) {
	engine := NewEngineWithSeed(7)
	agg := newTestAggregate(t, 3, map[string]int{"p1": 10})

	change, err := engine.DrawBatch(agg, "p1", 5)
	require.NoError(t, err)

	assert.Len(t, change.Added, 3)
	assert.Equal(t, 7, agg.Prize("p1").Stock, "unfilled reservation is restored")
	assert.Equal(t, -3, change.StockDelta["p1"])

	_, err = engine.DrawBatch(agg, "p1", 1)
	assert.ErrorIs(t, err, models.ErrNoEligibleAttendees)

	_, err = engine.DrawBatch(agg, "p1", 0)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestEngine_RemoveOne_DoesNotReclaimOrder(t *testing.T) {
	engine := NewEngineWithSeed(3)
	agg := newTestAggregate(t, 10, map[string]int{"p1": 10})

	var drawn []models.Winner
	for i := 0; i < 3; i++ {
		change, err := engine.DrawOne(agg, "p1", "")
		require.NoError(t, err)
		drawn = append(drawn, change.Added[0])
	}
	assert.Equal(t, []int{1, 2, 3}, orders(drawn))

	change, err := engine.RemoveOne(agg, drawn[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, change.StockDelta["p1"])
	assert.Equal(t, 8, agg.Prize("p1").Stock)

	change, err = engine.DrawOne(agg, "p1", "")
	require.NoError(t, err)
	assert.Equal(t, 4, change.Added[0].Order)

	_, err = engine.RemoveOne(agg, "missing")
	assert.ErrorIs(t, err, models.ErrWinnerNotFound)
}

func TestEngine_RemoveOne_DeletedPrize(t *testing.T) {
	engine := NewEngineWithSeed(3)
	agg := newTestAggregate(t, 2, map[string]int{"p1": 1})

	change, err := engine.DrawOne(agg, "p1", "")
	require.NoError(t, err)
	delete(agg.Prizes, "p1")

	removal, err := engine.RemoveOne(agg, change.Added[0].ID)
	require.NoError(t, err)
	assert.Empty(t, removal.StockDelta)
	assert.Empty(t, removal.Prizes())
	assert.Empty(t, agg.Event.Winners)
}

func TestEngine_RemoveAll_RestoresEveryPrize(t *testing.T) {
	engine := NewEngineWithSeed(5)
	agg := newTestAggregate(t, 20, map[string]int{"p1": 4, "p2": 2})

	_, err := engine.DrawBatch(agg, "p1", 4)
	require.NoError(t, err)
	_, err = engine.DrawBatch(agg, "p2", 2)
	require.NoError(t, err)
	require.Equal(t, 6, agg.Event.MaxOrder)

	change := engine.RemoveAll(agg)

	assert.Len(t, change.Removed, 6)
	assert.Equal(t, 4, agg.Prize("p1").Stock)
	assert.Equal(t, 2, agg.Prize("p2").Stock)
	assert.Empty(t, agg.Event.Winners)
	assert.Equal(t, 6, agg.Event.MaxOrder)
	assert.Len(t, change.Prizes(), 2)
}

func TestChange_Rollback(t *testing.T) {
	engine := NewEngineWithSeed(9)
	agg := newTestAggregate(t, 10, map[string]int{"p1": 5})

	first, err := engine.DrawBatch(agg, "p1", 2)
	require.NoError(t, err)

	change, err := engine.DrawBatch(agg, "p1", 2)
	require.NoError(t, err)
	change.Rollback()
	change.Rollback()

	assert.Equal(t, 3, agg.Prize("p1").Stock)
	assert.Equal(t, 2, agg.Event.MaxOrder)
	assert.Equal(t, orders(first.Added), orders(agg.Event.Winners))

	removal := engine.RemoveAll(agg)
	removal.Rollback()
	assert.Equal(t, 3, agg.Prize("p1").Stock)
	assert.Len(t, agg.Event.Winners, 2)
}

// Random sequences of draws and removals must conserve stock and never reuse an order.
func TestEngine_Invariants(t *testing.T) {
	engine := NewEngineWithSeed(42)
	initial := map[string]int{"p1": 7, "p2": 3, "p3": 12}
	agg := newTestAggregate(t, 30, initial)

	issued := map[int]bool{}
	lastOrder := 0
	for step := 0; step < 500; step++ {
		prizeID := []string{"p1", "p2", "p3"}[step%3]
		var change *Change
		var err error
		switch engine.intn(5) {
		case 0, 1:
			change, err = engine.DrawOne(agg, prizeID, "")
		case 2:
			change, err = engine.DrawBatch(agg, prizeID, 1+engine.intn(4))
		case 3:
			if len(agg.Event.Winners) > 0 {
				w := agg.Event.Winners[engine.intn(len(agg.Event.Winners))]
				change, err = engine.RemoveOne(agg, w.ID)
			}
		case 4:
			if engine.intn(10) == 0 {
				change = engine.RemoveAll(agg)
			}
		}
		if err != nil {
			continue
		}
		if change != nil {
			for _, w := range change.Added {
				assert.False(t, issued[w.Order], "order %d reused", w.Order)
				assert.Greater(t, w.Order, lastOrder)
				issued[w.Order] = true
				lastOrder = w.Order
			}
		}

		held := map[string]int{}
		ids := map[string]bool{}
		for _, w := range agg.Event.Winners {
			held[w.PrizeID]++
			require.False(t, ids[w.ID], "double win for %s", w.ID)
			ids[w.ID] = true
		}
		for id, stock := range initial {
			p := agg.Prize(id)
			require.GreaterOrEqual(t, p.Stock, 0)
			require.Equal(t, stock, p.Stock+held[id], "stock not conserved for %s", id)
		}
	}
}
