// Package kitchen derives the kitchen display's ticket queue from open
// orders. It is a read-only projection: the only write path from the
// display is the coordinator's item status operation.
package kitchen

import (
	"fmt"
	"time"

	"maitred/internal/models"
	"maitred/internal/pos"
)

// UrgentAfter is how long a ticket may wait before the display flags it.
const UrgentAfter = 15 * time.Minute

// Filter narrows the queue to orders with at least one item in the given
// preparation state.
type Filter string

const (
	FilterAll     Filter = "ALL"
	FilterPending Filter = "PENDING"
	FilterCooking Filter = "COOKING"
)

// Ticket is one order as the kitchen sees it.
type Ticket struct {
	OrderID        uint         `json:"orderId"`
	OrderNumber    int          `json:"orderNumber"`
	TableName      string       `json:"tableName"`
	CreatedAt      time.Time    `json:"createdAt"`
	ElapsedMinutes int          `json:"elapsedMinutes"`
	Urgent         bool         `json:"urgent"`
	Items          []TicketItem `json:"items"`
}

// TicketItem is one line on a ticket.
type TicketItem struct {
	ItemID      uint   `json:"itemId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Status      string `json:"status"`
	Notes       string `json:"notes,omitempty"`
	Modifiers   string `json:"modifiers,omitempty"`
}

// Queue builds tickets from the coordinator's active orders. The clock is
// injectable so elapsed-time behavior is testable.
type Queue struct {
	coordinator *pos.Coordinator
	now         func() time.Time
}

// NewQueue creates a queue over the coordinator.
func NewQueue(coordinator *pos.Coordinator) *Queue {
	return &Queue{coordinator: coordinator, now: time.Now}
}

// WithClock replaces the queue's clock. Tests only.
func (q *Queue) WithClock(now func() time.Time) *Queue {
	q.now = now
	return q
}

// ValidFilter reports whether f is a known queue filter.
func ValidFilter(f string) bool {
	switch Filter(f) {
	case FilterAll, FilterPending, FilterCooking:
		return true
	}
	return false
}

// Build returns the current ticket queue, oldest order first, narrowed by
// the filter.
func (q *Queue) Build(filter Filter) ([]Ticket, error) {
	orders, err := q.coordinator.GetActiveOrders()
	if err != nil {
		return nil, err
	}

	now := q.now()
	tickets := make([]Ticket, 0, len(orders))
	for _, order := range orders {
		if !matches(order, filter) {
			continue
		}

		elapsed := now.Sub(order.CreatedAt)
		ticket := Ticket{
			OrderID:        order.ID,
			OrderNumber:    order.OrderNumber,
			TableName:      "Takeout",
			CreatedAt:      order.CreatedAt,
			ElapsedMinutes: int(elapsed.Minutes()),
			Urgent:         elapsed > UrgentAfter,
		}
		if order.Table != nil {
			ticket.TableName = order.Table.Name
		}

		for _, item := range order.Items {
			line := TicketItem{
				ItemID:    item.ID,
				Quantity:  item.Quantity,
				Status:    item.Status,
				Notes:     item.Notes,
				Modifiers: item.Modifiers,
			}
			if item.Product != nil {
				line.ProductName = item.Product.Name
			} else {
				line.ProductName = fmt.Sprintf("Item #%d", item.ProductID)
			}
			ticket.Items = append(ticket.Items, line)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func matches(order models.Order, filter Filter) bool {
	if filter == FilterAll || filter == "" {
		return true
	}
	for _, item := range order.Items {
		if item.Status == string(filter) {
			return true
		}
	}
	return false
}
