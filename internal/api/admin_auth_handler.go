package api

import (
	"encoding/json"
	"net/http"

	apperr "turfbooking/internal/errors"
	"turfbooking/internal/service"
)

type AdminAuthHandler struct {
	Service service.AdminAuthService
}

func NewAdminAuthHandler(svc service.AdminAuthService) *AdminAuthHandler {
	return &AdminAuthHandler{Service: svc}
}

func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.NewValidationError("body", "is not valid JSON"))
		return
	}
	token, err := h.Service.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, apperr.ErrUnauthorized("Invalid credentials"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AdminAuthHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.NewValidationError("body", "is not valid JSON"))
		return
	}
	if err := h.Service.CreateAdmin(req.Email, req.Password); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Admin created"})
}
