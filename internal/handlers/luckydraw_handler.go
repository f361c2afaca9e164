package handlers

import (
	"net/http"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// LuckyDrawHandler handles draw-related HTTP requests
type LuckyDrawHandler struct {
	luckyDrawService services.LuckyDrawService
}

// NewLuckyDrawHandler creates a new LuckyDrawHandler
func NewLuckyDrawHandler(luckyDrawService services.LuckyDrawService) *LuckyDrawHandler {
	return &LuckyDrawHandler{
		luckyDrawService: luckyDrawService,
	}
}

// ListEligible handles GET /events/:eventId/luckydraw/eligible
func (h *LuckyDrawHandler) ListEligible(c *gin.Context) {
	attendees, err := h.luckyDrawService.ListEligible(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendees": attendees, "count": len(attendees)})
}

// ListWinners handles GET /events/:eventId/luckydraw/winners
func (h *LuckyDrawHandler) ListWinners(c *gin.Context) {
	winners, err := h.luckyDrawService.ListWinners(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"winners": winners, "count": len(winners)})
}

// DrawOne handles POST /events/:eventId/luckydraw/draw
func (h *LuckyDrawHandler) DrawOne(c *gin.Context) {
	var req models.DrawOneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	winner, err := h.luckyDrawService.DrawOne(c.Request.Context(), c.Param("eventId"), req.PrizeID, req.AttendeeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, winner)
}

// DrawBatch handles POST /events/:eventId/luckydraw/draw/batch
func (h *LuckyDrawHandler) DrawBatch(c *gin.Context) {
	var req models.DrawBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := h.luckyDrawService.DrawBatch(c.Request.Context(), c.Param("eventId"), req.PrizeID, req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// RemoveWinner handles DELETE /events/:eventId/luckydraw/winners/:winnerId
func (h *LuckyDrawHandler) RemoveWinner(c *gin.Context) {
	winner, err := h.luckyDrawService.RemoveWinner(c.Request.Context(), c.Param("eventId"), c.Param("winnerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Winner removed", "winner": winner})
}

// RemoveAllWinners handles DELETE /events/:eventId/luckydraw/winners
func (h *LuckyDrawHandler) RemoveAllWinners(c *gin.Context) {
	removed, err := h.luckyDrawService.RemoveAllWinners(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All winners removed", "removed": removed})
}
