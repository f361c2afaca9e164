package draw

import "github.com/ArowuTest/luckydraw-backend/internal/models"

// Eligible returns every checked-in attendee without a current winner record,
// in registration order.
func Eligible(event *models.Event) []models.Attendee {
	won := make(map[string]struct{}, len(event.Winners))
	for _, w := range event.Winners {
		won[w.ID] = struct{}{}
	}

	pool := make([]models.Attendee, 0, len(event.Attendees))
	for _, a := range event.Attendees {
		if !a.CheckedIn {
			continue
		}
		if _, ok := won[a.ID]; ok {
			continue
		}
		pool = append(pool, a)
	}
	return pool
}
