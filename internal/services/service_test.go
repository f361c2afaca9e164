package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ArowuTest/luckydraw-backend/internal/draw"
	"github.com/ArowuTest/luckydraw-backend/internal/locker"
	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Publish(ctx context.Context, n models.DrawNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// kinds returns the kinds of every published notification in call order
func (m *mockNotifier) kinds() []models.NotificationKind {
	var out []models.NotificationKind
	for _, c := range m.Calls {
		out = append(out, c.Arguments.Get(1).(models.DrawNotification).Kind)
	}
	return out
}

// failingDraws fails every SaveDraw while fail is set. interleave, when set,
// runs once just before the next write goes through.
type failingDraws struct {
	repositories.DrawRepository
	fail       bool
	interleave func()
}

func (f *failingDraws) SaveDraw(ctx context.Context, event *models.Event, prizes []*models.Prize) error {
	if f.fail {
		return errors.New("connection reset by peer")
	}
	if run := f.interleave; run != nil {
		f.interleave = nil
		run()
	}
	return f.DrawRepository.SaveDraw(ctx, event, prizes)
}

type fixture struct {
	store    repositories.Store
	draws    *failingDraws
	notifier *mockNotifier
	lucky    *LuckyDrawServiceImpl
	events   *EventServiceImpl
	prizes   *PrizeServiceImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore(memory.NewDB())
	lk := locker.NewKeyedMutex()
	n := &mockNotifier{}
	n.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	draws := &failingDraws{DrawRepository: store.Draws}

	return &fixture{
		store:    store,
		draws:    draws,
		notifier: n,
		lucky: NewLuckyDrawService(store.Events, store.Prizes, draws, draw.NewEngineWithSeed(7), lk, n, LuckyDrawOptions{
			MaxBatch: 50,
		}),
		events: NewEventService(store.Events, store.Prizes, lk, 0),
		prizes: NewPrizeService(store.Events, store.Prizes, lk, 0),
	}
}

// seed creates event e1 with n checked-in attendees a1..an and the given prizes
func (f *fixture) seed(t *testing.T, n int, stocks map[string]int) {
	t.Helper()
	ctx := context.Background()
	event := models.NewEvent("e1", "Gala")
	for i := 1; i <= n; i++ {
		event.Attendees = append(event.Attendees, models.Attendee{
			ID:        fmt.Sprintf("a%d", i),
			Name:      fmt.Sprintf("Guest %d", i),
			CheckedIn: true,
		})
	}
	require.NoError(t, f.store.Events.Create(ctx, event))
	for id, stock := range stocks {
		require.NoError(t, f.store.Prizes.Create(ctx, &models.Prize{ID: id, EventID: "e1", Name: "Prize " + id, Stock: stock}))
	}
}

func (f *fixture) stock(t *testing.T, prizeID string) int {
	t.Helper()
	p, err := f.store.Prizes.FindByID(context.Background(), prizeID)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) event(t *testing.T) *models.Event {
	t.Helper()
	e, err := f.store.Events.FindByID(context.Background(), "e1")
	require.NoError(t, err)
	return e
}
