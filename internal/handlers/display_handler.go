package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/notifier"
	"github.com/ArowuTest/luckydraw-backend/internal/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

const displayKeepAlive = 20 * time.Second

// DisplayHandler serves the display screens and the control panel cues
type DisplayHandler struct {
	displayService services.DisplayService
	keepAlive      time.Duration
}

func NewDisplayHandler(displayService services.DisplayService) *DisplayHandler {
	return &DisplayHandler{displayService: displayService, keepAlive: displayKeepAlive}
}

// Stream handles the public GET /events/:eventId/display/stream as server-sent
// events. Control panels connect through PanelStream instead.
func (h *DisplayHandler) Stream(c *gin.Context) {
	if c.Query("role") == string(notifier.RolePanel) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   models.KindUnauthorized,
			"message": "control panels must connect to /luckydraw/display/panel with an operator token",
		})
		return
	}
	h.stream(c, notifier.RoleDisplay)
}

// PanelStream handles GET /events/:eventId/luckydraw/display/panel, the
// authenticated stream that marks the control panel online
func (h *DisplayHandler) PanelStream(c *gin.Context) {
	h.stream(c, notifier.RolePanel)
}

func (h *DisplayHandler) stream(c *gin.Context, role notifier.Role) {
	eventID := c.Param("eventId")
	sub, err := h.displayService.Subscribe(c.Request.Context(), eventID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	defer sub.Close()
	slog.Info("Display connected", "eventId", eventID, "role", role)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case n, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(string(n.Kind), n)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"time": time.Now().Unix()})
			return true
		}
	})
	slog.Info("Display disconnected", "eventId", eventID, "role", role)
}

// StartDraw handles POST /events/:eventId/luckydraw/display/start
func (h *DisplayHandler) StartDraw(c *gin.Context) {
	if err := h.displayService.StartDraw(c.Request.Context(), c.Param("eventId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Draw started"})
}

// SelectPrize handles POST /events/:eventId/luckydraw/display/prize
func (h *DisplayHandler) SelectPrize(c *gin.Context) {
	var req models.SelectPrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	prize, err := h.displayService.SelectPrize(c.Request.Context(), c.Param("eventId"), req.PrizeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, prize)
}
