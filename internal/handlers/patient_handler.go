package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"clinic-backend/internal/cache"
	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
	"clinic-backend/internal/services"
	"clinic-backend/pkg/utils"
)

type PatientHandler struct {
	Service *services.PatientService
}

func NewPatientHandler(s *services.PatientService) *PatientHandler {
	return &PatientHandler{Service: s}
}

// CreatePatient registers a new patient
func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	var req models.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patient, err := h.Service.CreatePatient(r.Context(), tenantID, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	cache.InvalidatePatientCaches(r.Context(), tenantID)
	utils.JSON(w, http.StatusCreated, patient)
}

// GetPatient returns a patient by ID
func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}

	patient, err := h.Service.GetPatient(r.Context(), tenantID, id)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, patient)
}

// ListPatients returns patients for the tenant; ?phone= searches by phone
// prefix
func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	var patients []*models.Patient
	var err error
	if phone := r.URL.Query().Get("phone"); phone != "" {
		patients, err = h.Service.SearchByPhone(r.Context(), tenantID, phone)
	} else {
		patients, err = h.Service.ListPatients(r.Context(), tenantID)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	if patients == nil {
		patients = []*models.Patient{}
	}

	utils.JSON(w, http.StatusOK, patients)
}

// UpdatePatient updates patient contact details
func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}

	var req models.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patient, err := h.Service.UpdatePatient(r.Context(), tenantID, id, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	cache.InvalidatePatientCaches(r.Context(), tenantID)
	utils.JSON(w, http.StatusOK, patient)
}
