package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"turfbooking/internal/entities"
	apperr "turfbooking/internal/errors"
	"turfbooking/internal/service"
)

type AdminHandler struct {
	Turfs    *service.TurfService
	Bookings *service.AdminService
}

func NewAdminHandler(turfs *service.TurfService, bookings *service.AdminService) *AdminHandler {
	return &AdminHandler{Turfs: turfs, Bookings: bookings}
}

func (h *AdminHandler) CreateTurf(w http.ResponseWriter, r *http.Request) {
	var req entities.TurfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.NewValidationError("body", "is not valid JSON"))
		return
	}
	turf, err := h.Turfs.CreateTurf(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, turf)
}

func (h *AdminHandler) UpdateTurf(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.NewValidationError("id", "must be numeric"))
		return
	}
	var req entities.TurfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.NewValidationError("body", "is not valid JSON"))
		return
	}
	turf, err := h.Turfs.UpdateTurf(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, turf)
}

func (h *AdminHandler) DeleteTurf(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.NewValidationError("id", "must be numeric"))
		return
	}
	if err := h.Turfs.DeleteTurf(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Turf deleted"})
}

// ListBookings answers GET /admin/bookings?turfId=&date=&status=pending,confirmed&limit=&offset=.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	turfID, _ := strconv.Atoi(q.Get("turfId"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	var statuses []string
	if raw := q.Get("status"); raw != "" {
		statuses = strings.Split(raw, ",")
	}

	list, err := h.Bookings.ListBookings(r.Context(), turfID, q.Get("date"), statuses, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
