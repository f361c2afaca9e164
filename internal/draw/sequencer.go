package draw

import "github.com/ArowuTest/luckydraw-backend/internal/models"

// NextOrders issues n consecutive draw order numbers above the event's
// high-water mark and advances the mark to the last one issued.
// Numbers are never handed out twice, even after the winner holding one is removed.
func NextOrders(event *models.Event, n int) []int {
	if n <= 0 {
		return nil
	}
	orders := make([]int, n)
	for i := range orders {
		orders[i] = event.MaxOrder + i + 1
	}
	event.MaxOrder += n
	return orders
}
