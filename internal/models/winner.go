package models

import (
	"time"
)

// Winner is a materialized fact about an attendee winning a prize.
// ID is the attendee id; the name fields are snapshots taken at draw time.
type Winner struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Company   string    `bson:"company" json:"company"`
	Table     string    `bson:"table" json:"table"`
	PrizeID   string    `bson:"prizeId" json:"prizeId"`
	PrizeName string    `bson:"prizeName" json:"prizeName"`
	Order     int       `bson:"order" json:"order"`
	WonAt     time.Time `bson:"wonAt" json:"wonAt"`
}

// DrawOneRequest is the body of POST /events/:eventId/luckydraw/draw
type DrawOneRequest struct {
	PrizeID    string `json:"prizeId" binding:"required"`
	AttendeeID string `json:"attendeeId"`
}

// DrawBatchRequest is the body of POST /events/:eventId/luckydraw/draw/batch
type DrawBatchRequest struct {
	PrizeID string `json:"prizeId" binding:"required"`
	Count   int    `json:"count"`
}

// BatchResult is returned by a batch draw
type BatchResult struct {
	Winners     []Winner `json:"winners"`
	ActualCount int      `json:"actualCount"`
	Requested   int      `json:"requested"`
}
