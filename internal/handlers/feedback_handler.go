package handlers

import (
	"encoding/json"
	"net/http"

	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
	"clinic-backend/internal/repositories"
	"clinic-backend/pkg/utils"
)

type FeedbackHandler struct {
	Repo *repositories.FeedbackRepository
}

func NewFeedbackHandler(repo *repositories.FeedbackRepository) *FeedbackHandler {
	return &FeedbackHandler{Repo: repo}
}

// SubmitFeedback records patient feedback for the clinic
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	var req models.CreateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		utils.Error(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	fb := &models.Feedback{
		TenantID:    tenantID,
		PatientName: req.PatientName,
		Rating:      req.Rating,
		Message:     req.Message,
	}
	if err := h.Repo.Create(r.Context(), fb); err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, fb)
}

// ListFeedback returns feedback for the tenant, newest first
func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	items, err := h.Repo.List(r.Context(), tenantID)
	if err != nil {
		respondError(w, err)
		return
	}
	if items == nil {
		items = []*models.Feedback{}
	}

	utils.JSON(w, http.StatusOK, items)
}
