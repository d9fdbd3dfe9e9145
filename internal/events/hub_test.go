package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-lab/internal/domain"
)

func TestHubFanOut(t *testing.T) {
	hub := NewHub(4)
	a, cancelA := hub.Subscribe()
	defer cancelA()
	b, cancelB := hub.Subscribe()
	defer cancelB()

	ev := domain.ChangeEvent{Kind: domain.DeviceCreated, ID: "1", Name: "edge-1", At: time.Now()}
	hub.Publish(ev)

	assert.Equal(t, ev, <-a)
	assert.Equal(t, ev, <-b)
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewHub(1)
	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish(domain.ChangeEvent{Kind: domain.SiteCreated, ID: "1"})
	hub.Publish(domain.ChangeEvent{Kind: domain.SiteCreated, ID: "2"})

	got := <-ch
	assert.Equal(t, "1", got.ID)
	select {
	case extra := <-ch:
		t.Fatalf("expected second event to be dropped, got %+v", extra)
	default:
	}
}

func TestHubCancelUnsubscribes(t *testing.T) {
	hub := NewHub(0)
	ch, cancel := hub.Subscribe()
	require.Equal(t, 1, hub.Subscribers())

	cancel()
	cancel()

	assert.Equal(t, 0, hub.Subscribers())
	_, open := <-ch
	assert.False(t, open)

	hub.Publish(domain.ChangeEvent{Kind: domain.TagCreated, ID: "x"})
}
