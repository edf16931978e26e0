package handlers

import (
	"net/http"
	"strconv"

	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
	"clinic-backend/internal/repositories"
	"clinic-backend/pkg/utils"
)

// LedgerHandler exposes the append-only accounting trail for the admin
// console
type LedgerHandler struct {
	Repo *repositories.LedgerRepository
}

func NewLedgerHandler(repo *repositories.LedgerRepository) *LedgerHandler {
	return &LedgerHandler{Repo: repo}
}

// ListEntries returns ledger entries newest first; supports ?limit= and
// ?offset=
func (h *LedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.Repo.List(r.Context(), tenantID, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}

	utils.JSON(w, http.StatusOK, entries)
}

// GetBalance returns the outstanding balance for a patient contact
// (?patient_email=)
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	email := r.URL.Query().Get("patient_email")
	if email == "" {
		utils.Error(w, http.StatusBadRequest, "patient_email is required")
		return
	}

	balance, err := h.Repo.GetBalance(r.Context(), tenantID, email)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"patient_email": email,
		"balance":       balance,
	})
}
