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

type TurfHandler struct {
	Service *service.TurfService
}

func NewTurfHandler(svc *service.TurfService) *TurfHandler {
	return &TurfHandler{Service: svc}
}

func (h *TurfHandler) ListTurfs(w http.ResponseWriter, r *http.Request) {
	turfs, err := h.Service.ListTurfs(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, turfs)
}

func (h *TurfHandler) GetTurf(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.NewValidationError("id", "must be numeric"))
		return
	}
	turf, err := h.Service.GetTurf(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	rating, err := h.Service.GetRatingSummary(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"turf":   turf,
		"rating": rating,
	})
}

func (h *TurfHandler) RateTurf(w http.ResponseWriter, r *http.Request) {
	var req entities.RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.NewValidationError("body", "is not valid JSON"))
		return
	}
	summary, err := h.Service.RateTurf(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}
