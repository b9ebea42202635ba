// Package notify fans availability-changed events out to observers: in-process
// subscribers (bridged to WebSocket clients) and an AMQP exchange. Delivery is
// best-effort and at-most-once; publishing never blocks the booking path.
package notify

import "turfbooking/internal/entities"

type Notifier interface {
	Publish(turfID int, date string, slots []entities.Slot)
}

// MultiNotifier broadcasts to every configured sink.
type MultiNotifier []Notifier

func (m MultiNotifier) Publish(turfID int, date string, slots []entities.Slot) {
	for _, n := range m {
		n.Publish(turfID, date, slots)
	}
}
