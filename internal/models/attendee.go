package models

// Attendee is a registered guest of an event. Only checked-in attendees take part in draws.
type Attendee struct {
	ID        string `json:"id" bson:"_id"`
	Name      string `json:"name" bson:"name"`
	Company   string `json:"company" bson:"company"`
	Table     string `json:"table" bson:"table"`
	CheckedIn bool   `json:"checkedIn" bson:"checkedIn"`
}

// AttendeeImportRequest is the body of POST /events/:eventId/attendees
type AttendeeImportRequest struct {
	Attendees []AttendeeInput `json:"attendees" binding:"required,dive"`
}

type AttendeeInput struct {
	ID        string `json:"id"`
	Name      string `json:"name" binding:"required"`
	Company   string `json:"company"`
	Table     string `json:"table"`
	CheckedIn bool   `json:"checkedIn"`
}

// AttendeeImportResult reports how an import changed the guest list
type AttendeeImportResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Total   int `json:"total"`
}
