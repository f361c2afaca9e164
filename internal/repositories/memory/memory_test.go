package memory

import (
	"context"
	"testing"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_CopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewDB())

	event := models.NewEvent("e1", "Gala")
	event.Attendees = append(event.Attendees, models.Attendee{ID: "a1", Name: "Ann"})
	require.NoError(t, store.Events.Create(ctx, event))

	event.Attendees[0].Name = "changed"
	got, err := store.Events.FindByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Attendees[0].Name)

	got.Attendees[0].CheckedIn = true
	again, err := store.Events.FindByID(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, again.Attendees[0].CheckedIn)

	_, err = store.Events.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestDrawRepository_SaveDraw(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewDB())

	require.NoError(t, store.Events.Create(ctx, models.NewEvent("e1", "Gala")))
	require.NoError(t, store.Prizes.Create(ctx, &models.Prize{ID: "p1", EventID: "e1", Name: "TV", Stock: 3}))

	event, err := store.Events.FindByID(ctx, "e1")
	require.NoError(t, err)
	event.Winners = append(event.Winners, models.Winner{ID: "a1", PrizeID: "p1", Order: 1})
	event.MaxOrder = 1
	event.Title = "ignored by SaveDraw"

	require.NoError(t, store.Draws.SaveDraw(ctx, event, []*models.Prize{{ID: "p1", Stock: 2}}))

	saved, err := store.Events.FindByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 1, saved.MaxOrder)
	assert.Len(t, saved.Winners, 1)
	assert.Equal(t, "Gala", saved.Title)

	prize, err := store.Prizes.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, prize.Stock)
	assert.Equal(t, "TV", prize.Name)
}

func TestDrawRepository_SaveDraw_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewDB())

	require.NoError(t, store.Events.Create(ctx, models.NewEvent("e1", "Gala")))
	require.NoError(t, store.Prizes.Create(ctx, &models.Prize{ID: "p1", EventID: "e1", Stock: 3}))

	event, err := store.Events.FindByID(ctx, "e1")
	require.NoError(t, err)
	event.MaxOrder = 5

	err = store.Draws.SaveDraw(ctx, event, []*models.Prize{{ID: "p1", Stock: 0}, {ID: "gone", Stock: 1}})
	assert.ErrorIs(t, err, models.ErrPrizeNotFound)

	saved, _ := store.Events.FindByID(ctx, "e1")
	assert.Equal(t, 0, saved.MaxOrder)
	prize, _ := store.Prizes.FindByID(ctx, "p1")
	assert.Equal(t, 3, prize.Stock)
}

func TestNotificationRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewDB())

	for _, id := range []string{"n1", "n2", "n3"} {
		require.NoError(t, store.Notifications.Create(ctx, &models.DrawNotification{ID: id, EventID: "e1"}))
	}

	list, err := store.Notifications.FindByEventID(ctx, "e1", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n3", list[0].ID)
	assert.Equal(t, "n2", list[1].ID)
}

func TestEventRepository_FindAllPaginates(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewDB())
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Events.Create(ctx, models.NewEvent(id, id)))
	}

	page, err := store.Events.FindAll(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	empty, err := store.Events.FindAll(ctx, 5, 2)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestDrawRepository_SaveDraw_RejectsStaleRevision(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewDB())

	require.NoError(t, store.Events.Create(ctx, models.NewEvent("e1", "Gala")))
	require.NoError(t, store.Prizes.Create(ctx, &models.Prize{ID: "p1", EventID: "e1", Stock: 3}))

	first, err := store.Events.FindByID(ctx, "e1")
	require.NoError(t, err)
	late, err := store.Events.FindByID(ctx, "e1")
	require.NoError(t, err)

	first.Winners = []models.Winner{{ID: "a1", PrizeID: "p1", Order: 1}}
	first.MaxOrder = 1
	require.NoError(t, store.Draws.SaveDraw(ctx, first, []*models.Prize{{ID: "p1", Stock: 2}}))
	assert.Equal(t, int64(1), first.Revision)

	late.Winners = []models.Winner{{ID: "a2", PrizeID: "p1", Order: 1}}
	late.MaxOrder = 1
	err = store.Draws.SaveDraw(ctx, late, []*models.Prize{{ID: "p1", Stock: 2}})
	assert.ErrorIs(t, err, models.ErrStaleDraw)
	assert.Equal(t, int64(0), late.Revision)

	saved, err := store.Events.FindByID(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, saved.Winners, 1)
	assert.Equal(t, "a1", saved.Winners[0].ID)
	assert.Equal(t, int64(1), saved.Revision)
}

func TestEventRepository_UpdateKeepsDrawState(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewDB())

	require.NoError(t, store.Events.Create(ctx, models.NewEvent("e1", "Gala")))
	stale, err := store.Events.FindByID(ctx, "e1")
	require.NoError(t, err)

	drawn, err := store.Events.FindByID(ctx, "e1")
	require.NoError(t, err)
	drawn.Winners = []models.Winner{{ID: "a1", Order: 1}}
	drawn.MaxOrder = 1
	require.NoError(t, store.Draws.SaveDraw(ctx, drawn, nil))

	stale.Title = "Gala 2026"
	stale.Attendees = []models.Attendee{{ID: "a1", Name: "Ann"}}
	require.NoError(t, store.Events.Update(ctx, stale))

	saved, err := store.Events.FindByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Gala 2026", saved.Title)
	assert.Len(t, saved.Attendees, 1)
	assert.Len(t, saved.Winners, 1)
	assert.Equal(t, 1, saved.MaxOrder)
	assert.Equal(t, int64(1), saved.Revision)
}
