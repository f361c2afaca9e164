package handlers

import (
	"net/http"
	"strings"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/services"
	"github.com/ArowuTest/luckydraw-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// EventHandler handles event and attendee HTTP requests
type EventHandler struct {
	eventService services.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	event, err := h.eventService.CreateEvent(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(c *gin.Context) {
	page, limit := utils.GetPagination(c, 20, 100)
	events, err := h.eventService.ListEvents(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "page": page, "limit": limit})
}

// GetEvent handles GET /events/:eventId
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventService.GetEvent(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/:eventId
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventService.DeleteEvent(c.Request.Context(), c.Param("eventId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

// ImportAttendees handles POST /events/:eventId/attendees.
// Accepts a JSON body, a text/csv body, or a multipart form with a "file" field.
func (h *EventHandler) ImportAttendees(c *gin.Context) {
	var inputs []models.AttendeeInput
	contentType := c.ContentType()

	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		fileHeader, err := c.FormFile("file")
		if err != nil {
			respondBindError(c, err)
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			respondBindError(c, err)
			return
		}
		defer file.Close()
		if inputs, err = utils.ParseAttendeesCSV(file); err != nil {
			respondError(c, err)
			return
		}
	case contentType == "text/csv":
		var err error
		if inputs, err = utils.ParseAttendeesCSV(c.Request.Body); err != nil {
			respondError(c, err)
			return
		}
	default:
		var req models.AttendeeImportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		inputs = req.Attendees
	}

	result, err := h.eventService.ImportAttendees(c.Request.Context(), c.Param("eventId"), inputs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckIn handles POST /events/:eventId/attendees/:attendeeId/check-in
func (h *EventHandler) CheckIn(c *gin.Context) {
	attendee, err := h.eventService.CheckIn(c.Request.Context(), c.Param("eventId"), c.Param("attendeeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attendee)
}

// UndoCheckIn handles DELETE /events/:eventId/attendees/:attendeeId/check-in
func (h *EventHandler) UndoCheckIn(c *gin.Context) {
	attendee, err := h.eventService.UndoCheckIn(c.Request.Context(), c.Param("eventId"), c.Param("attendeeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attendee)
}
