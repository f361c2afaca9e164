package handlers

import (
	"errors"
	"net/http"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// statusOf maps an error kind onto its HTTP status
func statusOf(kind models.ErrorKind) int {
	switch kind {
	case models.KindEventNotFound, models.KindPrizeNotFound, models.KindWinnerNotFound, models.KindAttendeeNotFound:
		return http.StatusNotFound
	case models.KindOutOfStock, models.KindNoEligibleAttendees, models.KindAlreadyWon:
		return http.StatusConflict
	case models.KindInvalidArgument:
		return http.StatusBadRequest
	case models.KindUnauthorized:
		return http.StatusUnauthorized
	case models.KindPersistenceFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": kind, "message": text}
func respondError(c *gin.Context, err error) {
	kind := models.KindOf(err)
	status := statusOf(kind)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("Unhandled error", "path", c.FullPath(), "error", err)
		message = "internal server error"
	}
	if errors.Is(err, models.ErrPersistence) {
		c.Header("Retry-After", "1")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": kind, "message": message})
}

// respondBindError reports a malformed request body as InvalidArgument
func respondBindError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": models.KindInvalidArgument, "message": err.Error()})
}
