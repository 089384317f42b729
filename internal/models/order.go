package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// Order represents a customer's bill: a set of line items tied to a table,
// or to no table for takeout. TotalAmount always equals the sum of
// price*quantity over the items; every coordinator operation maintains it
// inside the same transaction as the item writes.
type Order struct {
	gorm.Model
	OrderNumber    int         `json:"orderNumber"`
	TableID        *uint       `json:"tableId"`
	Table          *Table      `gorm:"foreignkey:TableID" json:"table,omitempty"`
	Status         string      `json:"status"`
	TotalAmount    float64     `json:"totalAmount"`
	CompletedAt    *time.Time  `json:"completedAt,omitempty"`
	IdempotencyKey *string     `gorm:"unique_index" json:"-"`
	Items          []OrderItem `gorm:"foreignkey:OrderID" json:"items"`
}

// OrderItem is one product line within an order. Price is snapshotted from
// the product at order time and never re-read. Status tracks kitchen
// preparation independently of the parent order's status.
type OrderItem struct {
	gorm.Model
	OrderID   uint     `json:"orderId"`
	ProductID uint     `json:"productId"`
	Product   *Product `gorm:"foreignkey:ProductID" json:"product,omitempty"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"`
	Status    string   `json:"status"`
	Notes     string   `json:"notes,omitempty"`
	Modifiers string   `json:"modifiers,omitempty"`
}

// OrderStatus represents the possible states of an order
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "OPEN"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ItemStatus represents the kitchen preparation state of an order item
type ItemStatus string

const (
	ItemStatusPending ItemStatus = "PENDING"
	ItemStatusCooking ItemStatus = "COOKING"
	ItemStatusReady   ItemStatus = "READY"
	ItemStatusServed  ItemStatus = "SERVED"
)

// itemTransitions is the forward-only state machine for item preparation.
// Anything not listed here is an illegal transition.
var itemTransitions = map[ItemStatus]ItemStatus{
	ItemStatusPending: ItemStatusCooking,
	ItemStatusCooking: ItemStatusReady,
	ItemStatusReady:   ItemStatusServed,
}

// ValidItemStatus reports whether s is a known item status.
func ValidItemStatus(s string) bool {
	switch ItemStatus(s) {
	case ItemStatusPending, ItemStatusCooking, ItemStatusReady, ItemStatusServed:
		return true
	}
	return false
}

// CanTransition reports whether an item may move from one status to the
// next. Only single forward steps are allowed.
func CanTransition(from, to ItemStatus) bool {
	next, ok := itemTransitions[from]
	return ok && next == to
}

// ItemsTotal sums price*quantity over a set of line items.
func ItemsTotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
