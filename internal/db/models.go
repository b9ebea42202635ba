package db

import "time"

// Booking lifecycle statuses. Only pending and confirmed bookings count toward
// slot conflicts; canceled rows are inert.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCanceled  = "canceled"
)

// Payment statuses reported by the payment collaborator.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Price rule day classes.
const (
	DayClassWeekday = "weekday"
	DayClassWeekend = "weekend"
)

type Turf struct {
	ID            int
	Name          string
	Address       string
	ContactNumber string
	OpenTime      string // "hh:mm AM|PM"
	CloseTime     string
	SlotMinutes   int
	Active        bool
	BlackoutDates []string // "YYYY-MM-DD"
	PriceRules    []PriceRule
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PriceRule struct {
	ID          int
	TurfID      int
	DayClass    string // weekday | weekend
	WindowStart string // "hh:mm AM|PM"
	WindowEnd   string
	Rate        int
}

type Booking struct {
	ID              int
	Code            string
	TurfID          int
	Date            string // "YYYY-MM-DD"
	Slot            string // "<start> - <end>"
	StartMinute     int
	EndMinute       int
	Hours           float64
	UserName        string
	UserEmail       string
	UserPhone       string
	Status          string
	PaymentStatus   string
	Rate            int
	StripeSessionID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Rating struct {
	ID        int
	TurfID    int
	Score     int
	Comment   string
	CreatedAt time.Time
}

type Admin struct {
	ID           int
	Email        string
	PasswordHash string
}
