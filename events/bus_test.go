package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda-joyas/models"
)

func receive(t *testing.T, ch <-chan models.Event) models.Event {
	t.Helper()
	select {
	case evt := <-ch:
		return evt
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return models.Event{}
}

func TestBusDeliversToMatchingSubscribers(t *testing.T) {
	bus := NewBus(nil)

	all, cancelAll := bus.Subscribe(4, nil)
	defer cancelAll()
	mine, cancelMine := bus.Subscribe(4, ForSession("s1"))
	defer cancelMine()

	bus.Publish(Toast("s2", "hola"))
	bus.Publish(Toast("s1", "agregado"))
	bus.Publish(models.Event{Type: models.EventCatalogUpdated})

	assert.Equal(t, "hola", receive(t, all).Message)
	assert.Equal(t, "agregado", receive(t, all).Message)
	assert.Equal(t, models.EventCatalogUpdated, receive(t, all).Type)

	evt := receive(t, mine)
	assert.Equal(t, "agregado", evt.Message)
	assert.False(t, evt.At.IsZero())
	assert.Equal(t, models.EventCatalogUpdated, receive(t, mine).Type)
}

func TestBusDropsWhenBufferFull(t *testing.T) {
	bus := NewBus(nil)
	ch, cancel := bus.Subscribe(1, nil)
	defer cancel()

	bus.Publish(Toast("", "first"))
	bus.Publish(Toast("", "second"))

	assert.Equal(t, "first", receive(t, ch).Message)
	select {
	case evt := <-ch:
		t.Fatalf("unexpected event %+v", evt)
	default:
	}
}

func TestBusCancelClosesChannel(t *testing.T) {
	bus := NewBus(nil)
	ch, cancel := bus.Subscribe(1, nil)
	require.Equal(t, 1, bus.Subscribers())

	cancel()
	cancel()
	assert.Equal(t, 0, bus.Subscribers())
	_, open := <-ch
	assert.False(t, open)

	bus.Publish(Toast("", "after cancel"))
}

func TestOfType(t *testing.T) {
	match := OfType(models.EventCatalogUpdated, models.EventCatalogFailed)
	assert.True(t, match(models.Event{Type: models.EventCatalogFailed}))
	assert.False(t, match(models.Event{Type: models.EventToast}))
}
