// Package postgres is the relational storage backend, built on gorm.
// The event aggregate is split over events, attendees and winners tables;
// prizes, notifications and operators get their own tables.
package postgres

import (
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"gorm.io/gorm"
)

type eventRecord struct {
	ID        string `gorm:"primaryKey;size:64"`
	Title     string `gorm:"not null"`
	Venue     string
	StartAt   time.Time
	Status    string `gorm:"size:32;not null"`
	MaxOrder  int    `gorm:"not null;default:0"`
	Revision  int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Attendees []attendeeRecord `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Winners   []winnerRecord   `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

func (eventRecord) TableName() string { return "events" }

type attendeeRecord struct {
	EventID   string `gorm:"primaryKey;size:64"`
	ID        string `gorm:"primaryKey;size:64"`
	Position  int    `gorm:"not null"`
	Name      string `gorm:"not null"`
	Company   string
	TableNo   string
	CheckedIn bool `gorm:"not null;default:false"`
}

func (attendeeRecord) TableName() string { return "attendees" }

// winnerRecord enforces one record per attendee and one attendee per order number
type winnerRecord struct {
	EventID    string `gorm:"primaryKey;size:64;uniqueIndex:idx_winners_event_order,priority:1"`
	AttendeeID string `gorm:"primaryKey;size:64"`
	Position   int    `gorm:"not null"`
	Name       string
	Company    string
	TableNo    string
	PrizeID    string `gorm:"size:64;index"`
	PrizeName  string
	DrawOrder  int `gorm:"not null;uniqueIndex:idx_winners_event_order,priority:2"`
	WonAt      time.Time
}

func (winnerRecord) TableName() string { return "winners" }

type prizeRecord struct {
	ID        string `gorm:"primaryKey;size:64"`
	EventID   string `gorm:"size:64;not null;index"`
	Name      string `gorm:"not null"`
	Picture   string
	Stock     int `gorm:"not null;check:stock >= 0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (prizeRecord) TableName() string { return "prizes" }

type notificationRecord struct {
	ID        string `gorm:"primaryKey;size:64"`
	EventID   string `gorm:"size:64;not null;index:idx_notifications_event_created,priority:1"`
	Kind      string `gorm:"size:32;not null"`
	Payload   []byte `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"index:idx_notifications_event_created,priority:2,sort:desc"`
}

func (notificationRecord) TableName() string { return "draw_notifications" }

type operatorRecord struct {
	ID        string `gorm:"primaryKey;size:64"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Role      string `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (operatorRecord) TableName() string { return "operators" }

// Migrate creates or updates every table of the backend
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&eventRecord{},
		&attendeeRecord{},
		&winnerRecord{},
		&prizeRecord{},
		&notificationRecord{},
		&operatorRecord{},
	)
}

func toEventRecord(e *models.Event) eventRecord {
	rec := eventRecord{
		ID:        e.ID,
		Title:     e.Title,
		Venue:     e.Venue,
		StartAt:   e.StartAt,
		Status:    string(e.Status),
		MaxOrder:  e.MaxOrder,
		Revision:  e.Revision,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		Attendees: toAttendeeRecords(e.ID, e.Attendees),
		Winners:   toWinnerRecords(e.ID, e.Winners),
	}
	return rec
}

func toAttendeeRecords(eventID string, attendees []models.Attendee) []attendeeRecord {
	out := make([]attendeeRecord, len(attendees))
	for i, a := range attendees {
		out[i] = attendeeRecord{
			EventID:   eventID,
			ID:        a.ID,
			Position:  i,
			Name:      a.Name,
			Company:   a.Company,
			TableNo:   a.Table,
			CheckedIn: a.CheckedIn,
		}
	}
	return out
}

func toWinnerRecords(eventID string, winners []models.Winner) []winnerRecord {
	out := make([]winnerRecord, len(winners))
	for i, w := range winners {
		out[i] = winnerRecord{
			EventID:    eventID,
			AttendeeID: w.ID,
			Position:   i,
			Name:       w.Name,
			Company:    w.Company,
			TableNo:    w.Table,
			PrizeID:    w.PrizeID,
			PrizeName:  w.PrizeName,
			DrawOrder:  w.Order,
			WonAt:      w.WonAt,
		}
	}
	return out
}

func (r eventRecord) toModel() *models.Event {
	e := &models.Event{
		ID:        r.ID,
		Title:     r.Title,
		Venue:     r.Venue,
		StartAt:   r.StartAt,
		Status:    models.EventStatus(r.Status),
		MaxOrder:  r.MaxOrder,
		Revision:  r.Revision,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Attendees: make([]models.Attendee, len(r.Attendees)),
		Winners:   make([]models.Winner, len(r.Winners)),
	}
	for i, a := range r.Attendees {
		e.Attendees[i] = models.Attendee{
			ID:        a.ID,
			Name:      a.Name,
			Company:   a.Company,
			Table:     a.TableNo,
			CheckedIn: a.CheckedIn,
		}
	}
	for i, w := range r.Winners {
		e.Winners[i] = models.Winner{
			ID:        w.AttendeeID,
			Name:      w.Name,
			Company:   w.Company,
			Table:     w.TableNo,
			PrizeID:   w.PrizeID,
			PrizeName: w.PrizeName,
			Order:     w.DrawOrder,
			WonAt:     w.WonAt,
		}
	}
	return e
}

func toPrizeRecord(p *models.Prize) prizeRecord {
	return prizeRecord{
		ID:        p.ID,
		EventID:   p.EventID,
		Name:      p.Name,
		Picture:   p.Picture,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r prizeRecord) toModel() *models.Prize {
	return &models.Prize{
		ID:        r.ID,
		EventID:   r.EventID,
		Name:      r.Name,
		Picture:   r.Picture,
		Stock:     r.Stock,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
