package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
	"clinic-backend/internal/services"
	"clinic-backend/pkg/utils"
)

type PaymentHandler struct {
	Service *services.PaymentService
}

func NewPaymentHandler(s *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: s}
}

// RecordPayment applies a payment against an invoice and returns the
// payment with the re-derived invoice status
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	var req models.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payment, outcome, err := h.Service.RecordPayment(r.Context(), tenantID, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"payment":        payment,
		"invoice_status": outcome.Status,
	})
}

// ListPayments returns payments for the tenant, optionally filtered by
// ?invoice_id=
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	var invoiceID *int
	if raw := r.URL.Query().Get("invoice_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			utils.Error(w, http.StatusBadRequest, "Invalid invoice_id filter")
			return
		}
		invoiceID = &id
	}

	payments, err := h.Service.ListPayments(r.Context(), tenantID, invoiceID)
	if err != nil {
		respondError(w, err)
		return
	}
	if payments == nil {
		payments = []*models.Payment{}
	}

	utils.JSON(w, http.StatusOK, models.PaymentList{Payments: payments})
}
