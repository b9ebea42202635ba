package notify

import (
	"sync"

	"turfbooking/internal/entities"
)

// subscriberBuffer bounds how many undelivered events a subscriber may hold
// before further publishes to it are dropped.
const subscriberBuffer = 8

// Subscription receives slot updates for one turf on C until closed.
type Subscription struct {
	C      chan entities.SlotUpdateEvent
	turfID int
}

// Hub is the in-process fan-out of slot updates, keyed by turf.
type Hub struct {
	mu   sync.RWMutex
	subs map[int]map[*Subscription]bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]map[*Subscription]bool)}
}

func (h *Hub) Subscribe(turfID int) *Subscription {
	sub := &Subscription{
		C:      make(chan entities.SlotUpdateEvent, subscriberBuffer),
		turfID: turfID,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[turfID] == nil {
		h.subs[turfID] = make(map[*Subscription]bool)
	}
	h.subs[turfID][sub] = true
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.subs[sub.turfID]; ok && subs[sub] {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subs, sub.turfID)
		}
		close(sub.C)
	}
}

// Publish delivers the event to every subscriber of the turf. A subscriber
// whose buffer is full is skipped rather than waited on.
func (h *Hub) Publish(turfID int, date string, slots []entities.Slot) {
	event := entities.SlotUpdateEvent{TurfID: turfID, Date: date, Slots: slots}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[turfID] {
		select {
		case sub.C <- event:
		default:
		}
	}
}
