package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
}

func (r *recorder) Publish(evt Event) { r.events = append(r.events, evt) }

func TestNewEvent(t *testing.T) {
	evt := New(TypeOrderCreated, map[string]int{"orderId": 42})

	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, TypeOrderCreated, evt.Type)
	assert.False(t, evt.At.IsZero())

	other := New(TypeOrderCreated, nil)
	assert.NotEqual(t, evt.ID, other.ID)
}

func TestFanoutDeliversToAllSinks(t *testing.T) {
	first := &recorder{}
	second := &recorder{}
	fanout := Fanout{first, second}

	evt := New(TypeItemStatusChanged, nil)
	fanout.Publish(evt)

	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
	assert.Equal(t, evt.ID, first.events[0].ID)
	assert.Equal(t, evt.ID, second.events[0].ID)
}

func TestFanoutEmpty(t *testing.T) {
	var fanout Fanout
	assert.NotPanics(t, func() { fanout.Publish(New(TypeOrderCompleted, nil)) })
}

func TestHubPublishWithoutClients(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.ClientCount())
	assert.NotPanics(t, func() { hub.Publish(New(TypeOrderUpdated, "payload")) })
}
