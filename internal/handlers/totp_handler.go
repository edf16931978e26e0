package handlers

import (
	"encoding/json"
	"net/http"

	"clinic-backend/internal/middleware"
	"clinic-backend/internal/services"
	"clinic-backend/pkg/utils"
)

type TOTPHandler struct {
	Service *services.TOTPService
}

func NewTOTPHandler(service *services.TOTPService) *TOTPHandler {
	return &TOTPHandler{Service: service}
}

// Enroll starts 2FA enrollment and returns the otpauth URL
func (h *TOTPHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	url, err := h.Service.Enroll(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"otpauth_url": url})
}

// Verify checks a TOTP code, confirming enrollment on first success
func (h *TOTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		utils.Error(w, http.StatusBadRequest, "Code is required")
		return
	}

	if err := h.Service.Verify(r.Context(), userID, req.Code); err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{"verified": true})
}
