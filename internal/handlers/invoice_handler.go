package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
	"clinic-backend/internal/pdf"
	"clinic-backend/internal/repositories"
	"clinic-backend/internal/services"
	"clinic-backend/internal/storage"
	"clinic-backend/pkg/utils"
)

type InvoiceHandler struct {
	Service    *services.InvoiceService
	TenantRepo *repositories.TenantRepository
	Archive    *storage.R2Store
}

func NewInvoiceHandler(s *services.InvoiceService, tenantRepo *repositories.TenantRepository) *InvoiceHandler {
	return &InvoiceHandler{Service: s, TenantRepo: tenantRepo}
}

// SetArchive wires PDF archival to R2 (optional)
func (h *InvoiceHandler) SetArchive(archive *storage.R2Store) {
	h.Archive = archive
}

// CreateInvoice creates a new invoice with its line items
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	detail, err := h.Service.CreateInvoice(r.Context(), tenantID, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, detail)
}

// GetInvoice returns an invoice with items and payment history
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	detail, err := h.Service.GetInvoice(r.Context(), tenantID, id)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, detail)
}

// ListInvoices returns invoice summaries for the tenant
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	invoices, err := h.Service.ListInvoices(r.Context(), tenantID)
	if err != nil {
		respondError(w, err)
		return
	}
	if invoices == nil {
		invoices = []*models.Invoice{}
	}

	utils.JSON(w, http.StatusOK, models.InvoiceList{Invoices: invoices})
}

// DownloadInvoicePDF renders the invoice as a PDF receipt. The rendered
// copy is archived to R2 in the background when archival is configured.
func (h *InvoiceHandler) DownloadInvoicePDF(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	detail, err := h.Service.GetInvoice(r.Context(), tenantID, id)
	if err != nil {
		respondError(w, err)
		return
	}

	tenant, err := h.TenantRepo.Get(r.Context(), tenantID)
	if err != nil {
		respondError(w, err)
		return
	}

	data, err := pdf.GenerateInvoicePDF(tenant.Name, detail)
	if err != nil {
		respondError(w, err)
		return
	}

	if h.Archive != nil {
		// Request context dies with the response; archive on its own deadline
		go func(tenantID int, number string, data []byte) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := h.Archive.PutInvoicePDF(ctx, tenantID, number, data); err != nil {
				log.Printf("[Billing] Failed to archive invoice %s PDF: %v", number, err)
			}
		}(tenantID, detail.Invoice.InvoiceNumber, data)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="invoice-%s.pdf"`, detail.Invoice.InvoiceNumber))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
