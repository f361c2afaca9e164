package models

import "time"

// DefaultPrizeStock is the unit count given to a prize created without one
const DefaultPrizeStock = 1

// Prize is a finite-stock award belonging to one event.
// Stock is only ever changed by the inventory ledger or an explicit operator edit.
type Prize struct {
	ID        string    `bson:"_id" json:"id"`
	EventID   string    `bson:"eventId" json:"eventId"`
	Name      string    `bson:"name" json:"name"`
	Picture   string    `bson:"picture,omitempty" json:"picture,omitempty"`
	Stock     int       `bson:"stock" json:"stock"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PrizeRequest is the body for creating or updating a prize
type PrizeRequest struct {
	Name    string `json:"name" binding:"required"`
	Picture string `json:"picture"`
	Stock   *int   `json:"stock" binding:"omitempty,min=0"`
}
