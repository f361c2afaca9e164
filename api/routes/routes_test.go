package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/config"
	"github.com/ArowuTest/luckydraw-backend/internal/draw"
	"github.com/ArowuTest/luckydraw-backend/internal/locker"
	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/notifier"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories/memory"
	"github.com/ArowuTest/luckydraw-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{AllowedHosts: []string{"*"}},
		JWT:    config.JWTConfig{Secret: "route-secret"},
	}
	store := memory.NewStore(memory.NewDB())
	lk := locker.NewKeyedMutex()
	hub := notifier.NewHub()
	n := notifier.NewMulti(hub, notifier.NewRecorder(store.Notifications))

	prizes := services.NewPrizeService(store.Events, store.Prizes, lk, time.Second)
	auth := services.NewAuthService(store.Operators, cfg.JWT.Secret, time.Hour)
	require.NoError(t, auth.SeedOperator(context.Background(), "op@example.com", "pw"))

	router := SetupRouter(cfg, HandlerDependencies{
		LuckyDrawService:    services.NewLuckyDrawService(store.Events, store.Prizes, store.Draws, draw.NewEngine(), lk, n, services.LuckyDrawOptions{MaxBatch: 100}),
		EventService:        services.NewEventService(store.Events, store.Prizes, lk, time.Second),
		PrizeService:        prizes,
		DisplayService:      services.NewDisplayService(store.Events, prizes, hub, n, time.Second),
		AuthService:         auth,
		NotificationService: services.NewNotificationService(store.Events, store.Notifications),
	})

	api := &testAPI{t: t, router: router}
	var login struct {
		Token string `json:"token"`
	}
	api.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "op@example.com", "password": "pw"}, http.StatusOK, &login)
	api.token = login.Token
	return api
}

// do sends a JSON request and decodes the response into out when it is not nil
func (a *testAPI) do(method, path string, body interface{}, wantStatus int, out interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	require.Equal(a.t, wantStatus, w.Code, w.Body.String())
	if out != nil {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func TestRoutes_DrawFlow(t *testing.T) {
	api := newTestAPI(t)

	var event models.Event
	api.do(http.MethodPost, "/api/v1/events", gin.H{"title": "Gala"}, http.StatusCreated, &event)
	base := "/api/v1/events/" + event.ID

	attendees := make([]gin.H, 0, 6)
	for i := 1; i <= 6; i++ {
		attendees = append(attendees, gin.H{"id": fmt.Sprintf("a%d", i), "name": fmt.Sprintf("Guest %d", i), "checkedIn": true})
	}
	api.do(http.MethodPost, base+"/attendees", gin.H{"attendees": attendees}, http.StatusOK, nil)

	var prize models.Prize
	api.do(http.MethodPost, base+"/prizes", gin.H{"name": "TV", "stock": 4}, http.StatusCreated, &prize)

	var batch models.BatchResult
	api.do(http.MethodPost, base+"/luckydraw/draw/batch", gin.H{"prizeId": prize.ID, "count": 10}, http.StatusCreated, &batch)
	assert.Equal(t, 4, batch.ActualCount)

	var apiErr apiError
	api.do(http.MethodPost, base+"/luckydraw/draw", gin.H{"prizeId": prize.ID}, http.StatusConflict, &apiErr)
	assert.Equal(t, "OutOfStock", apiErr.Error)

	api.do(http.MethodDelete, base+"/luckydraw/winners/"+batch.Winners[0].ID, nil, http.StatusOK, nil)

	var winner models.Winner
	api.do(http.MethodPost, base+"/luckydraw/draw", gin.H{"prizeId": prize.ID}, http.StatusCreated, &winner)
	assert.Equal(t, 5, winner.Order)

	var winners struct {
		Winners []models.Winner `json:"winners"`
	}
	api.do(http.MethodGet, base+"/luckydraw/winners", nil, http.StatusOK, &winners)
	require.Len(t, winners.Winners, 4)
	assert.Equal(t, 5, winners.Winners[3].Order)

	var removed struct {
		Removed int `json:"removed"`
	}
	api.do(http.MethodDelete, base+"/luckydraw/winners", nil, http.StatusOK, &removed)
	assert.Equal(t, 4, removed.Removed)

	api.do(http.MethodGet, base+"/prizes/"+prize.ID, nil, http.StatusOK, &prize)
	assert.Equal(t, 4, prize.Stock)

	var feed struct {
		Notifications []models.DrawNotification `json:"notifications"`
	}
	api.do(http.MethodGet, base+"/luckydraw/notifications?limit=1", nil, http.StatusOK, &feed)
	require.Len(t, feed.Notifications, 1)
	assert.Equal(t, models.NotificationAllWinnersRemoved, feed.Notifications[0].Kind)
}

func TestRoutes_ErrorMapping(t *testing.T) {
	api := newTestAPI(t)

	var apiErr apiError
	api.do(http.MethodGet, "/api/v1/events/missing/luckydraw/winners", nil, http.StatusNotFound, &apiErr)
	assert.Equal(t, "EventNotFound", apiErr.Error)

	var event models.Event
	api.do(http.MethodPost, "/api/v1/events", gin.H{"title": "Gala"}, http.StatusCreated, &event)
	base := "/api/v1/events/" + event.ID

	api.do(http.MethodPost, base+"/luckydraw/draw", gin.H{}, http.StatusBadRequest, &apiErr)
	assert.Equal(t, "InvalidArgument", apiErr.Error)

	api.do(http.MethodPost, base+"/luckydraw/draw", gin.H{"prizeId": "nope"}, http.StatusNotFound, &apiErr)
	assert.Equal(t, "PrizeNotFound", apiErr.Error)

	var prize models.Prize
	api.do(http.MethodPost, base+"/prizes", gin.H{"name": "Mug"}, http.StatusCreated, &prize)
	assert.Equal(t, 1, prize.Stock)

	api.do(http.MethodPost, base+"/luckydraw/draw", gin.H{"prizeId": prize.ID}, http.StatusConflict, &apiErr)
	assert.Equal(t, "NoEligibleAttendees", apiErr.Error)

	api.do(http.MethodPost, base+"/luckydraw/draw/batch", gin.H{"prizeId": prize.ID, "count": 0}, http.StatusBadRequest, &apiErr)
	assert.Equal(t, "InvalidArgument", apiErr.Error)

	api.do(http.MethodDelete, base+"/luckydraw/winners/ghost", nil, http.StatusNotFound, &apiErr)
	assert.Equal(t, "WinnerNotFound", apiErr.Error)

	api.token = ""
	api.do(http.MethodGet, "/api/v1/events", nil, http.StatusUnauthorized, nil)
	api.do(http.MethodGet, "/api/v1/health", nil, http.StatusOK, nil)
}

func TestRoutes_CheckInAndCSVImport(t *testing.T) {
	api := newTestAPI(t)

	var event models.Event
	api.do(http.MethodPost, "/api/v1/events", gin.H{"title": "Gala"}, http.StatusCreated, &event)
	base := "/api/v1/events/" + event.ID

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "guests.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("id,name,company,table\na1,Ann,Acme,1\na2,Bob,Acme,2\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, base+"/attendees", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+api.token)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"added":2`)

	var eligible struct {
		Count int `json:"count"`
	}
	api.do(http.MethodGet, base+"/luckydraw/eligible", nil, http.StatusOK, &eligible)
	assert.Equal(t, 0, eligible.Count)

	var attendee models.Attendee
	api.do(http.MethodPost, base+"/attendees/a2/check-in", nil, http.StatusOK, &attendee)
	assert.True(t, attendee.CheckedIn)

	api.do(http.MethodGet, base+"/luckydraw/eligible", nil, http.StatusOK, &eligible)
	assert.Equal(t, 1, eligible.Count)

	api.do(http.MethodDelete, base+"/attendees/a2/check-in", nil, http.StatusOK, &attendee)
	assert.False(t, attendee.CheckedIn)

	var apiErr apiError
	api.do(http.MethodPost, base+"/attendees/zz/check-in", nil, http.StatusNotFound, &apiErr)
	assert.Equal(t, "AttendeeNotFound", apiErr.Error)
}

func TestRoutes_PanelStreamNeedsOperatorToken(t *testing.T) {
	api := newTestAPI(t)
	api.token = ""

	var body apiError
	api.do(http.MethodGet, "/api/v1/events/any/display/stream?role=panel", nil, http.StatusUnauthorized, &body)
	assert.Equal(t, string(models.KindUnauthorized), body.Error)

	api.do(http.MethodGet, "/api/v1/events/any/luckydraw/display/panel", nil, http.StatusUnauthorized, nil)
}
