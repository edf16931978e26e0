package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OnlineTransaction is the audit record for a Razorpay order. The actual
// money movement lands in the payments table through the normal recording
// path once the payment is captured.
type OnlineTransaction struct {
	ID                int             `json:"id"`
	TenantID          int             `json:"tenant_id"`
	InvoiceID         int             `json:"invoice_id"`
	RazorpayOrderID   string          `json:"razorpay_order_id"`
	RazorpayPaymentID string          `json:"razorpay_payment_id"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"` // created, captured, failed
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// CreateOnlinePaymentRequest starts an online payment for an invoice
type CreateOnlinePaymentRequest struct {
	InvoiceID int             `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// CreateOrderResponse is returned to the frontend to open Razorpay checkout
type CreateOrderResponse struct {
	OrderID  string          `json:"order_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	KeyID    string          `json:"key_id"`
}
