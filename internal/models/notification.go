package models

import (
	"time"
)

type NotificationKind string

const (
	NotificationWinnerAdded       NotificationKind = "winner_added"
	NotificationWinnerRemoved     NotificationKind = "winner_removed"
	NotificationAllWinnersRemoved NotificationKind = "all_winners_removed"

	// Display room cues, sent by the control panel to the screens
	NotificationControllerStatus NotificationKind = "controller_status"
	NotificationDrawStarted      NotificationKind = "draw_started"
	NotificationPrizeSelected    NotificationKind = "prize_selected"
)

// DrawNotification is published to display screens and the message broker.
// The topic is the event id.
type DrawNotification struct {
	ID        string           `bson:"_id" json:"id"`
	EventID   string           `bson:"eventId" json:"eventId"`
	Kind      NotificationKind `bson:"kind" json:"kind"`
	Winner    *Winner          `bson:"winner,omitempty" json:"winner,omitempty"`
	WinnerID  string           `bson:"winnerId,omitempty" json:"winnerId,omitempty"`
	PrizeID   string           `bson:"prizeId,omitempty" json:"prizeId,omitempty"`
	PrizeName string           `bson:"prizeName,omitempty" json:"prizeName,omitempty"`
	Status    string           `bson:"status,omitempty" json:"status,omitempty"` // online, offline
	Removed   int              `bson:"removed,omitempty" json:"removed,omitempty"`
	CreatedAt time.Time        `bson:"createdAt" json:"createdAt"`
}

// SelectPrizeRequest is the body of POST /events/:eventId/luckydraw/display/prize
type SelectPrizeRequest struct {
	PrizeID string `json:"prizeId" binding:"required"`
}
