package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"clinic-backend/internal/models"
	"clinic-backend/internal/repositories"
	"clinic-backend/pkg/utils"
)

// TenantHandler serves the platform admin console: onboarding and
// suspending clinics
type TenantHandler struct {
	Repo *repositories.TenantRepository
}

func NewTenantHandler(repo *repositories.TenantRepository) *TenantHandler {
	return &TenantHandler{Repo: repo}
}

// CreateTenant onboards a new clinic
func (h *TenantHandler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.Error(w, http.StatusBadRequest, "Name is required")
		return
	}
	req.Subdomain = strings.ToLower(strings.TrimSpace(req.Subdomain))
	if req.Subdomain == "" {
		utils.Error(w, http.StatusBadRequest, "Subdomain is required")
		return
	}

	tenant := &models.Tenant{Name: req.Name, Subdomain: req.Subdomain}
	if err := h.Repo.Create(r.Context(), tenant); err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, tenant)
}

// ListTenants returns all clinics on the platform
func (h *TenantHandler) ListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.Repo.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if tenants == nil {
		tenants = []*models.Tenant{}
	}

	utils.JSON(w, http.StatusOK, tenants)
}

// UpdateTenant renames or suspends/reactivates a clinic
func (h *TenantHandler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid tenant ID")
		return
	}

	var req models.UpdateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenant, err := h.Repo.Update(r.Context(), id, req.Name, req.IsActive)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, tenant)
}
