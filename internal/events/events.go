// Package events carries order lifecycle notifications from the
// coordinator to whatever is listening: the kitchen display and POS
// terminals over WebSocket, and optionally a RabbitMQ queue. Delivery is
// fire-and-forget; a slow or absent listener never blocks an order
// operation.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of lifecycle event.
type Type string

const (
	TypeOrderCreated      Type = "order.created"
	TypeOrderUpdated      Type = "order.updated"
	TypeOrderCompleted    Type = "order.completed"
	TypeItemStatusChanged Type = "item.status_changed"
)

// Event is the envelope published to all sinks.
type Event struct {
	ID      string      `json:"id"`
	Type    Type        `json:"type"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload"`
}

// New builds an event with a fresh ID and the current timestamp.
func New(t Type, payload interface{}) Event {
	return Event{
		ID:      uuid.NewString(),
		Type:    t,
		At:      time.Now().UTC(),
		Payload: payload,
	}
}

// Publisher is a best-effort event sink.
type Publisher interface {
	Publish(evt Event)
}

// Fanout delivers each event to every sink in order.
type Fanout []Publisher

// Publish implements Publisher.
func (f Fanout) Publish(evt Event) {
	for _, p := range f {
		p.Publish(evt)
	}
}
