package handlers

import (
	"net/http"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// PrizeHandler handles prize HTTP requests
type PrizeHandler struct {
	prizeService services.PrizeService
}

func NewPrizeHandler(prizeService services.PrizeService) *PrizeHandler {
	return &PrizeHandler{prizeService: prizeService}
}

// CreatePrize handles POST /events/:eventId/prizes
func (h *PrizeHandler) CreatePrize(c *gin.Context) {
	var req models.PrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	prize, err := h.prizeService.CreatePrize(c.Request.Context(), c.Param("eventId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, prize)
}

// ListPrizes handles GET /events/:eventId/prizes
func (h *PrizeHandler) ListPrizes(c *gin.Context) {
	prizes, err := h.prizeService.ListPrizes(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prizes": prizes})
}

// GetPrize handles GET /events/:eventId/prizes/:prizeId
func (h *PrizeHandler) GetPrize(c *gin.Context) {
	prize, err := h.prizeService.GetPrize(c.Request.Context(), c.Param("eventId"), c.Param("prizeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prize)
}

// UpdatePrize handles PUT /events/:eventId/prizes/:prizeId
func (h *PrizeHandler) UpdatePrize(c *gin.Context) {
	var req models.PrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	prize, err := h.prizeService.UpdatePrize(c.Request.Context(), c.Param("eventId"), c.Param("prizeId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prize)
}

// DeletePrize handles DELETE /events/:eventId/prizes/:prizeId
func (h *PrizeHandler) DeletePrize(c *gin.Context) {
	if err := h.prizeService.DeletePrize(c.Request.Context(), c.Param("eventId"), c.Param("prizeId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Prize deleted"})
}
