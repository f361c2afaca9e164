package services

import (
	"context"
	"testing"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventService_CreateAndImport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.events.CreateEvent(ctx, models.CreateEventRequest{Title: "  "})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	event, err := f.events.CreateEvent(ctx, models.CreateEventRequest{Title: "Year End Party", Venue: "Hall B"})
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, models.EventStatusActive, event.Status)

	res, err := f.events.ImportAttendees(ctx, event.ID, []models.AttendeeInput{
		{ID: "a1", Name: "Ann"},
		{Name: "Bob", CheckedIn: true},
	})
	require.NoError(t, err)
	assert.Equal(t, &models.AttendeeImportResult{Added: 2, Total: 2}, res)

	_, err = f.events.CheckIn(ctx, event.ID, "a1")
	require.NoError(t, err)

	res, err = f.events.ImportAttendees(ctx, event.ID, []models.AttendeeInput{{ID: "a1", Name: "Ann Lee", Company: "Acme"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.Total)

	got, err := f.events.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	i := got.FindAttendee("a1")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "Ann Lee", got.Attendees[i].Name)
	assert.True(t, got.Attendees[i].CheckedIn, "re-import keeps the check-in")

	_, err = f.events.ImportAttendees(ctx, event.ID, []models.AttendeeInput{{ID: "x"}})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestEventService_UndoCheckInKeepsWinner(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 2, map[string]int{"p1": 2})
	ctx := context.Background()

	w, err := f.lucky.DrawOne(ctx, "e1", "p1", "a1")
	require.NoError(t, err)

	a, err := f.events.UndoCheckIn(ctx, "e1", "a1")
	require.NoError(t, err)
	assert.False(t, a.CheckedIn)

	event := f.event(t)
	require.Len(t, event.Winners, 1)
	assert.Equal(t, w.ID, event.Winners[0].ID)
	assert.Equal(t, 1, event.MaxOrder)

	eligible, err := f.lucky.ListEligible(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, "a2", eligible[0].ID)

	_, err = f.events.CheckIn(ctx, "e1", "nobody")
	assert.ErrorIs(t, err, models.ErrAttendeeNotFound)
}

func TestEventService_DeleteRemovesPrizes(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 1, map[string]int{"p1": 1, "p2": 1})
	ctx := context.Background()

	require.NoError(t, f.events.DeleteEvent(ctx, "e1"))

	_, err := f.events.GetEvent(ctx, "e1")
	assert.ErrorIs(t, err, models.ErrEventNotFound)
	_, err = f.store.Prizes.FindByID(ctx, "p1")
	assert.ErrorIs(t, err, models.ErrPrizeNotFound)

	assert.ErrorIs(t, f.events.DeleteEvent(ctx, "e1"), models.ErrEventNotFound)
}

func TestPrizeService(t *testing.T) {
	f := newFixture(t)
	f.seed(t, 1, nil)
	ctx := context.Background()

	p, err := f.prizes.CreatePrize(ctx, "e1", models.PrizeRequest{Name: "Bike"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPrizeStock, p.Stock)

	negative := -1
	_, err = f.prizes.CreatePrize(ctx, "e1", models.PrizeRequest{Name: "Car", Stock: &negative})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = f.prizes.CreatePrize(ctx, "missing", models.PrizeRequest{Name: "Car"})
	assert.ErrorIs(t, err, models.ErrEventNotFound)

	five := 5
	p, err = f.prizes.UpdatePrize(ctx, "e1", p.ID, models.PrizeRequest{Name: "E-Bike", Stock: &five})
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)
	assert.Equal(t, "E-Bike", p.Name)

	list, err := f.prizes.ListPrizes(ctx, "e1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.prizes.GetPrize(ctx, "other-event", p.ID)
	assert.ErrorIs(t, err, models.ErrPrizeNotFound)

	require.NoError(t, f.prizes.DeletePrize(ctx, "e1", p.ID))
	assert.ErrorIs(t, f.prizes.DeletePrize(ctx, "e1", p.ID), models.ErrPrizeNotFound)
}
