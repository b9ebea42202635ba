package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"turfbooking/internal/entities"
	apperr "turfbooking/internal/errors"
	"turfbooking/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// AvailableSlots answers GET /api/bookings/available-slots?turfId=&date=&hours=.
func (h *BookingHandler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	turfID, err := strconv.Atoi(q.Get("turfId"))
	if err != nil || turfID <= 0 {
		respondError(w, apperr.NewValidationError("turfId", "is required"))
		return
	}
	date := q.Get("date")
	if date == "" {
		respondError(w, apperr.NewValidationError("date", "is required"))
		return
	}
	hours, err := strconv.ParseFloat(q.Get("hours"), 64)
	if err != nil {
		respondError(w, apperr.NewValidationError("hours", "must be a number"))
		return
	}

	slots, err := h.Service.AvailableSlots(r.Context(), turfID, date, hours)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

// ConfirmBooking answers POST /api/bookings/confirm-booking.
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.NewValidationError("body", "is not valid JSON"))
		return
	}

	result, err := h.Service.ConfirmBooking(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":       true,
		"message":       "Booking confirmed",
		"booking":       result.Booking,
		"checkout_url":  result.CheckoutURL,
		"updated_slots": result.UpdatedSlots,
	})
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	booking, err := h.Service.GetBooking(r.Context(), code)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	booking, err := h.Service.CancelBooking(r.Context(), code)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Booking canceled",
		"booking": booking,
	})
}
