package entities

import "time"

type BookingResponse struct {
	Code          string    `json:"code"`
	TurfID        int       `json:"turf_id"`
	TurfName      string    `json:"turf_name,omitempty"`
	Date          string    `json:"date"`
	Slot          string    `json:"slot"`
	Hours         float64   `json:"hours"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Rate          int       `json:"rate"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
	UserPhone     string    `json:"user_phone"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookingResult is what a successful confirm-booking command returns: the
// created booking plus the availability list recomputed after the write.
type BookingResult struct {
	Booking      BookingResponse `json:"booking"`
	CheckoutURL  string          `json:"checkout_url,omitempty"`
	UpdatedSlots []Slot          `json:"updated_slots"`
}

type BookingsList struct {
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Bookings []BookingResponse `json:"bookings"`
}
