package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turfbooking/internal/entities"
)

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(7)
	defer hub.Unsubscribe(sub)

	slots := []entities.Slot{{Slot: "09:00 AM - 10:00 AM", Available: true}}
	hub.Publish(7, "2026-09-01", slots)

	select {
	case event := <-sub.C:
		assert.Equal(t, 7, event.TurfID)
		assert.Equal(t, "2026-09-01", event.Date)
		assert.Equal(t, slots, event.Slots)
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
}

func TestHubScopesByTurf(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(1)
	defer hub.Unsubscribe(sub)

	hub.Publish(2, "2026-09-01", nil)

	select {
	case <-sub.C:
		t.Fatal("subscriber of turf 1 received turf 2 event")
	default:
	}
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(1)
	defer hub.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Nobody drains sub.C; publishing past the buffer must drop, not block.
		for i := 0; i < subscriberBuffer*3; i++ {
			hub.Publish(1, "2026-09-01", nil)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	assert.Equal(t, subscriberBuffer, len(sub.C))
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(1)
	hub.Unsubscribe(sub)

	_, open := <-sub.C
	require.False(t, open)

	// Publishing after unsubscribe must not panic on the closed channel.
	hub.Publish(1, "2026-09-01", nil)
}
