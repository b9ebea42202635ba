package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the booking core. Handlers map these onto HTTP statuses,
// services wrap them with context via fmt.Errorf("...: %w", err).
var (
	// ErrSlotConflict means the requested interval overlaps an active booking.
	// The caller lost a race and should re-query availability before retrying.
	ErrSlotConflict = errors.New("slot already booked")

	// ErrResourceUnavailable covers a missing turf or a blackout date.
	ErrResourceUnavailable = errors.New("turf unavailable")

	// ErrMalformedTimeLabel means a time-of-day label does not match "hh:mm AM|PM".
	ErrMalformedTimeLabel = errors.New("malformed time label")

	// ErrInvalidResourceConfig means the turf's operating window or slot
	// granularity is unusable (open >= close, granularity <= 0).
	ErrInvalidResourceConfig = errors.New("invalid turf configuration")

	// ErrInvalidDuration means the requested duration is not positive.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrStorageUnavailable is returned after the ledger exhausted its retries
	// against a transient storage fault.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrBookingNotFound means no booking matches the given code or session.
	ErrBookingNotFound = errors.New("booking not found")
)

// ValidationError reports a client-fixable problem with a request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
