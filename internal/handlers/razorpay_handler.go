package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"clinic-backend/internal/metrics"
	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
	"clinic-backend/internal/services"
	"clinic-backend/pkg/utils"
)

type RazorpayHandler struct {
	Service *services.RazorpayService
}

func NewRazorpayHandler(service *services.RazorpayService) *RazorpayHandler {
	return &RazorpayHandler{Service: service}
}

// CheckPaymentStatus returns whether online payments are enabled
// GET /api/payment/status
func (h *RazorpayHandler) CheckPaymentStatus(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]bool{"enabled": h.Service.IsEnabled()})
}

// CreateOrder creates a Razorpay order for an invoice
// POST /api/payment/create-order
func (h *RazorpayHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	var req models.CreateOnlinePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Service.CreateOrder(r.Context(), tenantID, &req)
	if err != nil {
		log.Printf("[Razorpay] CreateOrder error: %v", err)
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// webhookEvent is the subset of the Razorpay webhook body we act on
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// Webhook handles payment.captured events from Razorpay
// POST /api/payment/webhook
func (h *RazorpayHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	if !h.Service.VerifyWebhookSignature(body, r.Header.Get("X-Razorpay-Signature")) {
		metrics.WebhookFailures.Inc()
		utils.Error(w, http.StatusUnauthorized, "Invalid webhook signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid webhook body")
		return
	}

	if event.Event != "payment.captured" {
		// Acknowledge events we don't act on so Razorpay stops retrying
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	entity := event.Payload.Payment.Entity
	if err := h.Service.HandleCaptured(r.Context(), entity.OrderID, entity.ID); err != nil {
		metrics.WebhookFailures.Inc()
		log.Printf("[Razorpay] Webhook settle error for order %s: %v", entity.OrderID, err)
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
