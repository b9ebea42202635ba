package entities

// Slot is a bookable candidate window derived on every availability query.
// It is a view over the current ledger state, never persisted.
type Slot struct {
	Slot      string `json:"slot"` // "<start> - <end>" in "hh:mm AM|PM" labels
	Available bool   `json:"available"`
}

// SlotUpdateEvent is broadcast to observers of a turf whenever its
// availability for a date changes.
type SlotUpdateEvent struct {
	TurfID int    `json:"turf_id"`
	Date   string `json:"date"`
	Slots  []Slot `json:"slots"`
}
