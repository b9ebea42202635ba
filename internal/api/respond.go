package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperr "turfbooking/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondError maps the domain error taxonomy onto HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	var verr *apperr.ValidationError
	var httpErr *apperr.HTTPError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": verr.Error()})
	case errors.As(err, &httpErr):
		writeJSON(w, httpErr.Code, map[string]string{"message": httpErr.Message})
	case errors.Is(err, apperr.ErrMalformedTimeLabel), errors.Is(err, apperr.ErrInvalidDuration):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
	case errors.Is(err, apperr.ErrSlotConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"message": "This slot has already been booked"})
	case errors.Is(err, apperr.ErrResourceUnavailable):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": err.Error()})
	case errors.Is(err, apperr.ErrBookingNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Booking not found"})
	case errors.Is(err, apperr.ErrStorageUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "Temporarily unable to process bookings"})
	default:
		log.Printf("Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Something went wrong"})
	}
}
