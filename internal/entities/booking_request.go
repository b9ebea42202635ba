package entities

// BookingRequest is the validated boundary type for a booking command. The
// client supplies a previously offered slot label; the end time inside it is
// recomputed server-side and never trusted.
type BookingRequest struct {
	TurfID    int     `json:"turf_id"`
	Date      string  `json:"date"` // "YYYY-MM-DD"
	Slot      string  `json:"slot"` // "<start> - <end>"
	Hours     float64 `json:"hours"`
	UserName  string  `json:"user_name"`
	UserEmail string  `json:"user_email"`
	UserPhone string  `json:"user_phone"`
}
